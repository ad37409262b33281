package server

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"wordduel/internal/game"
	"wordduel/internal/metrics"
	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/server/clientpackets"
	"wordduel/internal/server/serverpackets"
)

// Handler routes decoded frames to the game services and turns their
// outcomes into reply and notification frames. It runs on dispatcher
// workers; the services do their own locking.
type Handler struct {
	clients    *ClientManager
	auth       *game.AuthService
	rooms      *game.RoomService
	matches    *game.MatchService
	beforePlay *game.BeforePlayService
	summary    *game.SummaryService
}

// NewHandler wires the packet router.
func NewHandler(
	clients *ClientManager,
	auth *game.AuthService,
	rooms *game.RoomService,
	matches *game.MatchService,
	beforePlay *game.BeforePlayService,
	summary *game.SummaryService,
) *Handler {
	return &Handler{
		clients:    clients,
		auth:       auth,
		rooms:      rooms,
		matches:    matches,
		beforePlay: beforePlay,
		summary:    summary,
	}
}

// Handle processes one frame from one client.
func (h *Handler) Handle(ctx context.Context, c *Client, frame protocol.Frame) {
	start := time.Now()
	metrics.PacketsHandled.WithLabelValues("0x" + strconv.FormatUint(uint64(frame.Type), 16)).Inc()
	defer func() {
		metrics.HandleDuration.Observe(time.Since(start).Seconds())
	}()

	switch frame.Type {
	case protocol.C2SRegister:
		h.handleRegister(ctx, c, frame.Payload)
	case protocol.C2SLogin:
		h.handleLogin(c, frame.Payload)
	case protocol.C2SLogout:
		h.handleLogout(c, frame.Payload)
	case protocol.C2SCreateRoom:
		h.handleCreateRoom(c, frame.Payload)
	case protocol.C2SLeaveRoom:
		h.handleLeaveRoom(ctx, c, frame.Payload)
	case protocol.C2SRequestOnlineList:
		h.handleOnlineList(c, frame.Payload)
	case protocol.C2SKickPlayer:
		h.handleKickPlayer(c, frame.Payload)
	case protocol.C2SSendInvite:
		h.handleSendInvite(c, frame.Payload)
	case protocol.C2SRespondInvite:
		h.handleRespondInvite(c, frame.Payload)
	case protocol.C2SSetReady:
		h.handleSetReady(c, frame.Payload)
	case protocol.C2SStartGame:
		h.handleStartGame(c, frame.Payload)
	case protocol.C2SGuessChar:
		h.handleGuessChar(c, frame.Payload)
	case protocol.C2SGuessWord:
		h.handleGuessWord(c, frame.Payload)
	case protocol.C2SRequestDraw:
		h.handleRequestDraw(c, frame.Payload)
	case protocol.C2SEndGame:
		h.handleEndGame(ctx, c, frame.Payload)
	case protocol.C2SRequestSummary:
		h.handleRequestSummary(c, frame.Payload)
	case protocol.C2SRequestHistory:
		h.handleRequestHistory(ctx, c, frame.Payload)
	case protocol.C2SRequestLeaderboard:
		h.handleRequestLeaderboard(c, frame.Payload)
	default:
		metrics.FramesDropped.Inc()
		slog.Warn("unknown packet type, dropping", "type", frame.Type, "client", c.IP())
	}
}

// sendError reports a malformed payload back to the sender.
func (h *Handler) sendError(c *Client, forType uint16, err error) {
	slog.Warn("malformed packet", "type", forType, "client", c.IP(), "error", err)
	_ = c.Send((&serverpackets.Error{ForType: forType, Message: "malformed packet"}).Encode())
}

func (h *Handler) handleRegister(ctx context.Context, c *Client, data []byte) {
	pkt, err := clientpackets.ParseRegister(data)
	if err != nil {
		h.sendError(c, protocol.C2SRegister, err)
		return
	}
	code, msg := h.auth.Register(ctx, pkt.Username, pkt.Password)
	_ = c.Send((&serverpackets.RegisterResult{Code: code, Message: msg}).Encode())
}

func (h *Handler) handleLogin(c *Client, data []byte) {
	pkt, err := clientpackets.ParseLogin(data)
	if err != nil {
		h.sendError(c, protocol.C2SLogin, err)
		return
	}
	code, msg, sess := h.auth.Login(pkt.Username, pkt.Password, c.ID)
	reply := serverpackets.LoginResult{Code: code, Message: msg}
	if sess != nil {
		reply.SessionToken = sess.Token
		reply.Wins = sess.Wins
		reply.TotalPoints = sess.TotalPoints
		metrics.SessionsActive.Set(float64(h.auth.SessionCount()))
	}
	_ = c.Send(reply.Encode())
}

func (h *Handler) handleLogout(c *Client, data []byte) {
	pkt, err := clientpackets.ParseLogout(data)
	if err != nil {
		h.sendError(c, protocol.C2SLogout, err)
		return
	}
	code, msg := h.auth.Logout(pkt.Token)
	metrics.SessionsActive.Set(float64(h.auth.SessionCount()))
	_ = c.Send((&serverpackets.LogoutAck{Code: code, Message: msg}).Encode())
}

func (h *Handler) handleCreateRoom(c *Client, data []byte) {
	pkt, err := clientpackets.ParseCreateRoom(data)
	if err != nil {
		h.sendError(c, protocol.C2SCreateRoom, err)
		return
	}
	sess, ok := h.auth.Session(pkt.Token)
	if !ok {
		_ = c.Send((&serverpackets.CreateRoomResult{Code: protocol.RCAuthFail, Message: "invalid session"}).Encode())
		return
	}
	code, msg, roomID := h.rooms.Create(sess.Username, c.ID, pkt.RoomName)
	_ = c.Send((&serverpackets.CreateRoomResult{Code: code, Message: msg, RoomID: roomID}).Encode())
}

func (h *Handler) handleLeaveRoom(ctx context.Context, c *Client, data []byte) {
	pkt, err := clientpackets.ParseLeaveRoom(data)
	if err != nil {
		h.sendError(c, protocol.C2SLeaveRoom, err)
		return
	}
	sess, ok := h.auth.Session(pkt.Token)
	if !ok {
		_ = c.Send((&serverpackets.LeaveRoomAck{Code: protocol.RCAuthFail, Message: "invalid session"}).Encode())
		return
	}

	// Walking out mid-match is a forfeit, same as dropping the connection.
	if end, forfeited := h.matches.Forfeit(ctx, sess.Username); forfeited {
		metrics.MatchesEnded.Inc()
		slog.Info("match forfeited on room leave", "user", sess.Username, "match", end.MatchID)
		_ = c.Send((&serverpackets.GameEnd{
			MatchID:    end.MatchID,
			ResultCode: end.ResultCode,
			Summary:    end.Summary,
		}).Encode())
		if conn, online := h.auth.ConnOf(end.Opponent); online {
			h.clients.Send(conn, (&serverpackets.GameEnd{
				MatchID:    end.MatchID,
				ResultCode: flipEndCode(end.ResultCode),
				Summary:    end.Summary,
			}).Encode())
		}
		// The room id doubles as the match id.
		h.releaseRoom(end.MatchID)
		_ = c.Send((&serverpackets.LeaveRoomAck{Code: protocol.RCOK, Message: "left the room, match forfeited"}).Encode())
		return
	}

	out := h.rooms.Leave(sess.Username, pkt.RoomID)
	_ = c.Send((&serverpackets.LeaveRoomAck{Code: out.Code, Message: out.Message}).Encode())
	if out.Code == protocol.RCOK && !out.RoomDeleted {
		note := serverpackets.PlayerLeftNotification{
			Username:  out.LeftUser,
			IsNewHost: out.IsNewHost,
			Message:   out.LeftUser + " left the room",
		}
		if out.IsNewHost {
			note.Message = out.LeftUser + " left, you are now the host"
		}
		h.clients.Send(out.NotifyConn, note.Encode())
	}
}

func (h *Handler) handleOnlineList(c *Client, data []byte) {
	pkt, err := clientpackets.ParseRequestOnlineList(data)
	if err != nil {
		h.sendError(c, protocol.C2SRequestOnlineList, err)
		return
	}
	code, names := h.beforePlay.OnlineList(pkt.Token)
	if code != protocol.RCOK {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SRequestOnlineList, Code: code, Message: "invalid session"}).Encode())
		return
	}
	_ = c.Send((&serverpackets.OnlineList{Usernames: names}).Encode())
}

func (h *Handler) handleKickPlayer(c *Client, data []byte) {
	pkt, err := clientpackets.ParseKickPlayer(data)
	if err != nil {
		h.sendError(c, protocol.C2SKickPlayer, err)
		return
	}
	sess, ok := h.auth.Session(pkt.Token)
	if !ok {
		_ = c.Send((&serverpackets.KickResult{Code: protocol.RCAuthFail, Message: "invalid session"}).Encode())
		return
	}
	out := h.rooms.Kick(pkt.RoomID, sess.Username, pkt.TargetUsername)
	_ = c.Send((&serverpackets.KickResult{Code: out.Code, Message: out.Message, TargetUsername: out.Target}).Encode())
	if out.Code == protocol.RCOK {
		h.clients.Send(out.TargetConn, (&serverpackets.KickResult{
			Code:           protocol.RCOK,
			Message:        "you were kicked from the room",
			TargetUsername: out.Target,
		}).Encode())
	}
}

func (h *Handler) handleSendInvite(c *Client, data []byte) {
	pkt, err := clientpackets.ParseSendInvite(data)
	if err != nil {
		h.sendError(c, protocol.C2SSendInvite, err)
		return
	}
	out := h.beforePlay.SendInvite(pkt.Token, pkt.TargetUsername, pkt.RoomID)
	_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SSendInvite, Code: out.Code, Message: out.Message}).Encode())
	if out.Code == protocol.RCOK {
		h.clients.Send(out.TargetConn, (&serverpackets.InviteReceived{
			FromUsername: out.From,
			RoomID:       out.RoomID,
			RoomName:     out.RoomName,
		}).Encode())
	}
}

func (h *Handler) handleRespondInvite(c *Client, data []byte) {
	pkt, err := clientpackets.ParseRespondInvite(data)
	if err != nil {
		h.sendError(c, protocol.C2SRespondInvite, err)
		return
	}
	out := h.beforePlay.RespondInvite(pkt.Token, pkt.FromUsername, pkt.Accept)
	if out.Code == protocol.RCOK && out.Accepted {
		// The responder joined: they get the room ack a fresh member gets.
		_ = c.Send((&serverpackets.CreateRoomResult{
			Code:    protocol.RCOK,
			Message: "joined " + out.RoomName,
			RoomID:  out.RoomID,
		}).Encode())
	} else {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SRespondInvite, Code: out.Code, Message: out.Message}).Encode())
	}
	if out.SenderConn != model.NoConn && out.Code != protocol.RCAuthFail {
		msg := out.Target + " declined your invite"
		if out.Accepted {
			msg = out.Target + " accepted your invite"
		}
		h.clients.Send(out.SenderConn, (&serverpackets.InviteResponse{
			ToUsername: out.Target,
			Accepted:   out.Accepted,
			Message:    msg,
		}).Encode())
	}
}

func (h *Handler) handleSetReady(c *Client, data []byte) {
	pkt, err := clientpackets.ParseSetReady(data)
	if err != nil {
		h.sendError(c, protocol.C2SSetReady, err)
		return
	}
	out := h.beforePlay.SetReady(pkt.Token, pkt.RoomID, pkt.Ready)
	_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SSetReady, Code: out.Code, Message: out.Message}).Encode())
	if out.Code == protocol.RCOK && out.NotifyHost {
		h.clients.Send(out.HostConn, (&serverpackets.PlayerReadyUpdate{
			Username: out.Username,
			Ready:    out.Ready,
		}).Encode())
	}
}

func (h *Handler) handleStartGame(c *Client, data []byte) {
	pkt, err := clientpackets.ParseStartGame(data)
	if err != nil {
		h.sendError(c, protocol.C2SStartGame, err)
		return
	}
	out := h.beforePlay.StartGame(pkt.Token, pkt.RoomID)
	if out.Code != protocol.RCOK {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SStartGame, Code: out.Code, Message: out.Message}).Encode())
		return
	}
	metrics.MatchesStarted.Inc()
	for _, p := range out.Players {
		h.clients.Send(p.Conn, (&serverpackets.GameStart{
			RoomID:           out.RoomID,
			OpponentUsername: p.Opponent,
			WordLength:       out.WordLength,
			CurrentRound:     out.Round,
		}).Encode())
	}
}

func (h *Handler) handleGuessChar(c *Client, data []byte) {
	pkt, err := clientpackets.ParseGuessChar(data)
	if err != nil {
		h.sendError(c, protocol.C2SGuessChar, err)
		return
	}
	out := h.matches.GuessChar(pkt.Token, pkt.RoomID, pkt.MatchID, pkt.Char)
	if out.Code != protocol.RCOK {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SGuessChar, Code: out.Code, Message: out.Message}).Encode())
		return
	}
	_ = c.Send((&serverpackets.GuessCharResult{
		Correct:           out.Correct,
		CurrentPattern:    out.Pattern,
		AttemptsRemaining: out.Remaining,
		PointsGained:      out.ScoreGained,
		TotalScore:        out.TotalScore,
		CurrentRound:      out.Round,
		YourTurn:          out.YourTurn,
	}).Encode())
	h.notifyOpponentChar(out)
}

// notifyOpponentChar mirrors a character guess to the other player with
// their own attempt and turn view.
func (h *Handler) notifyOpponentChar(out game.GuessOutcome) {
	conn, online := h.auth.ConnOf(out.Opponent)
	if !online {
		return
	}
	h.clients.Send(conn, (&serverpackets.GuessCharResult{
		Correct:           out.Correct,
		CurrentPattern:    out.Pattern,
		AttemptsRemaining: out.OppRemaining,
		PointsGained:      out.ScoreGained,
		TotalScore:        out.OppTotal,
		CurrentRound:      out.Round,
		YourTurn:          out.OppYourTurn,
	}).Encode())
}

func (h *Handler) handleGuessWord(c *Client, data []byte) {
	pkt, err := clientpackets.ParseGuessWord(data)
	if err != nil {
		h.sendError(c, protocol.C2SGuessWord, err)
		return
	}
	out := h.matches.GuessWord(pkt.Token, pkt.RoomID, pkt.MatchID, pkt.Word)
	if out.Code != protocol.RCOK {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SGuessWord, Code: out.Code, Message: out.Message}).Encode())
		return
	}
	nextPattern := ""
	if out.RoundComplete && !out.MatchOver {
		nextPattern = out.Pattern
	}
	_ = c.Send((&serverpackets.GuessWordResult{
		Correct:           out.Correct,
		Message:           out.Message,
		AttemptsRemaining: out.Remaining,
		PointsGained:      out.ScoreGained,
		TotalScore:        out.TotalScore,
		CurrentRound:      out.Round,
		RoundComplete:     out.RoundComplete,
		NextPattern:       nextPattern,
		YourTurn:          out.YourTurn,
	}).Encode())
	if conn, online := h.auth.ConnOf(out.Opponent); online {
		h.clients.Send(conn, (&serverpackets.GuessWordResult{
			Correct:           out.Correct,
			Message:           out.Message,
			AttemptsRemaining: out.OppRemaining,
			PointsGained:      out.ScoreGained,
			TotalScore:        out.OppTotal,
			CurrentRound:      out.Round,
			RoundComplete:     out.RoundComplete,
			NextPattern:       nextPattern,
			YourTurn:          out.OppYourTurn,
		}).Encode())
	}
}

func (h *Handler) handleRequestDraw(c *Client, data []byte) {
	pkt, err := clientpackets.ParseRequestDraw(data)
	if err != nil {
		h.sendError(c, protocol.C2SRequestDraw, err)
		return
	}
	out := h.matches.RequestDraw(pkt.Token, pkt.RoomID, pkt.MatchID)
	_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SRequestDraw, Code: out.Code, Message: out.Message}).Encode())
	if out.Code == protocol.RCOK {
		if conn, online := h.auth.ConnOf(out.Opponent); online {
			h.clients.Send(conn, (&serverpackets.DrawRequest{
				FromUsername: out.From,
				MatchID:      out.MatchID,
			}).Encode())
		}
	}
}

// flipEndCode translates a forfeiter-perspective end code into the
// opponent's perspective: the resignation forced by a disconnect or a
// mid-match room leave means the opponent won. Explicitly declared ends
// go out verbatim to both sides.
func flipEndCode(code uint8) uint8 {
	switch code {
	case game.EndResign, game.EndCallerLost:
		return game.EndCallerWon
	case game.EndCallerWon:
		return game.EndCallerLost
	default:
		return code
	}
}

func (h *Handler) handleEndGame(ctx context.Context, c *Client, data []byte) {
	pkt, err := clientpackets.ParseEndGame(data)
	if err != nil {
		h.sendError(c, protocol.C2SEndGame, err)
		return
	}
	out := h.matches.EndGame(ctx, pkt.Token, pkt.RoomID, pkt.MatchID, pkt.ResultCode)
	if out.Code != protocol.RCOK {
		_ = c.Send((&serverpackets.Ack{AckForType: protocol.C2SEndGame, Code: out.Code, Message: out.Message}).Encode())
		return
	}
	metrics.MatchesEnded.Inc()
	// Both players get the declared code verbatim: a resignation ends the
	// game as GameEnd{0, "Game Over"} on each side.
	end := (&serverpackets.GameEnd{
		MatchID:    out.MatchID,
		ResultCode: out.ResultCode,
		Summary:    out.Summary,
	}).Encode()
	_ = c.Send(end)
	if conn, online := h.auth.ConnOf(out.Opponent); online {
		h.clients.Send(conn, end)
	}
	h.releaseRoom(pkt.RoomID)
}

// releaseRoom tears the room down after a finished match.
func (h *Handler) releaseRoom(roomID uint32) {
	h.rooms.Release(roomID)
}

func (h *Handler) handleRequestSummary(c *Client, data []byte) {
	pkt, err := clientpackets.ParseRequestSummary(data)
	if err != nil {
		h.sendError(c, protocol.C2SRequestSummary, err)
		return
	}
	out := h.matches.Summary(pkt.Token, pkt.MatchID)
	_ = c.Send((&serverpackets.GameSummary{
		Code:    out.Code,
		Message: out.Message,
		MatchID: out.MatchID,
		Players: out.Players,
		Rounds:  out.Rounds,
		Totals:  out.Totals,
		Winner:  out.Winner,
	}).Encode())
}

func (h *Handler) handleRequestHistory(ctx context.Context, c *Client, data []byte) {
	pkt, err := clientpackets.ParseRequestHistory(data)
	if err != nil {
		h.sendError(c, protocol.C2SRequestHistory, err)
		return
	}
	code, records := h.summary.History(ctx, pkt.Token)
	reply := serverpackets.HistoryList{Code: code, Records: records}
	if code != protocol.RCOK {
		reply.Message = "could not load history"
	}
	_ = c.Send(reply.Encode())
}

func (h *Handler) handleRequestLeaderboard(c *Client, data []byte) {
	pkt, err := clientpackets.ParseRequestLeaderboard(data)
	if err != nil {
		h.sendError(c, protocol.C2SRequestLeaderboard, err)
		return
	}
	code, entries := h.summary.Leaderboard(pkt.Token)
	_ = c.Send((&serverpackets.Leaderboard{Code: code, Entries: entries}).Encode())
}

// OnDisconnect cleans up after a dropped connection: the active match is
// forfeited, the room is left with notification and the session dies.
func (h *Handler) OnDisconnect(ctx context.Context, c *Client) {
	username, had := h.auth.Disconnect(c.ID)
	if !had {
		return
	}
	metrics.SessionsActive.Set(float64(h.auth.SessionCount()))

	if out, forfeited := h.matches.Forfeit(ctx, username); forfeited {
		metrics.MatchesEnded.Inc()
		slog.Info("match forfeited on disconnect", "user", username, "match", out.MatchID)
		if conn, online := h.auth.ConnOf(out.Opponent); online {
			h.clients.Send(conn, (&serverpackets.GameEnd{
				MatchID:    out.MatchID,
				ResultCode: flipEndCode(out.ResultCode),
				Summary:    out.Summary,
			}).Encode())
		}
	}

	if room, inRoom := h.rooms.RoomByUsername(username); inRoom {
		out := h.rooms.Leave(username, room.ID)
		if out.Code == protocol.RCOK && !out.RoomDeleted {
			note := serverpackets.PlayerLeftNotification{
				Username:  username,
				IsNewHost: out.IsNewHost,
				Message:   username + " disconnected",
			}
			h.clients.Send(out.NotifyConn, note.Encode())
		}
	}
	slog.Info("player disconnected", "user", username, "conn", c.ID)
}
