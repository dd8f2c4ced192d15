package signal

func (ctl *Controller) handlePing(
	conn *wsConn,
) {
	ctl.sendEvent(conn, "pong", nil)
}
