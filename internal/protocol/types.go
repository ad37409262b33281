package protocol

// Packet type codes. C2S = client to server, S2C = server to client.
// 0x0403 historically carried both C2S_StartGame and S2C_GameStart; the
// server treats 0x0403 as client-to-server only and always answers game
// starts with 0x0404.
const (
	C2SRegister       uint16 = 0x0101
	S2CRegisterResult uint16 = 0x0102
	C2SLogin          uint16 = 0x0103
	S2CLoginResult    uint16 = 0x0104
	C2SLogout         uint16 = 0x0105
	S2CLogoutAck      uint16 = 0x0106

	C2SCreateRoom             uint16 = 0x0201
	S2CCreateRoomResult       uint16 = 0x0202
	C2SLeaveRoom              uint16 = 0x0203
	S2CLeaveRoomAck           uint16 = 0x0204
	S2CPlayerLeftNotification uint16 = 0x0205
	C2SRequestOnlineList      uint16 = 0x0206
	S2COnlineList             uint16 = 0x0207
	C2SKickPlayer             uint16 = 0x0208
	S2CKickResult             uint16 = 0x0209

	C2SSendInvite     uint16 = 0x0301
	S2CInviteReceived uint16 = 0x0302
	C2SRespondInvite  uint16 = 0x0303
	S2CInviteResponse uint16 = 0x0304

	C2SSetReady          uint16 = 0x0401
	S2CPlayerReadyUpdate uint16 = 0x0402
	C2SStartGame         uint16 = 0x0403
	S2CGameStart         uint16 = 0x0404

	C2SGuessChar       uint16 = 0x0501
	S2CGuessCharResult uint16 = 0x0502
	C2SGuessWord       uint16 = 0x0503
	S2CGuessWordResult uint16 = 0x0504
	C2SRequestDraw     uint16 = 0x0505
	S2CDrawRequest     uint16 = 0x0506
	C2SEndGame         uint16 = 0x0507
	S2CGameEnd         uint16 = 0x0508

	C2SRequestHistory     uint16 = 0x0601
	S2CHistoryList        uint16 = 0x0602
	C2SRequestLeaderboard uint16 = 0x0603
	S2CLeaderboard        uint16 = 0x0604

	C2SRequestSummary uint16 = 0x0509
	S2CGameSummary    uint16 = 0x050A

	S2CError uint16 = 0x0FFE
	S2CAck   uint16 = 0x0FFF
)

// ResultCode is the one-byte status carried by most S2C packets.
type ResultCode uint8

const (
	RCOK          ResultCode = 0
	RCFail        ResultCode = 1
	RCAuthFail    ResultCode = 2
	RCInvalid     ResultCode = 3
	RCNotFound    ResultCode = 4
	RCAlready     ResultCode = 5
	RCServerError ResultCode = 6
)

func (rc ResultCode) String() string {
	switch rc {
	case RCOK:
		return "OK"
	case RCFail:
		return "FAIL"
	case RCAuthFail:
		return "AUTH_FAIL"
	case RCInvalid:
		return "INVALID"
	case RCNotFound:
		return "NOT_FOUND"
	case RCAlready:
		return "ALREADY"
	case RCServerError:
		return "SERVER_ERROR"
	default:
		return "UNKNOWN"
	}
}
