package model

// ConnID is the stable logical identity of one client connection, assigned
// on accept. It deliberately is not the OS file descriptor: a recycled fd
// must not inherit the session or room associations of its predecessor.
type ConnID uint64

// NoConn is the zero ConnID, meaning "no connection".
const NoConn ConnID = 0
