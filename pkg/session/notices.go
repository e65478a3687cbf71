package session

import "fmt"

const (
	connectingNotice   = "[Conectando al servidor]"
	connectedNotice    = "[Conectado al servidor]"
	disconnectedNotice = "[Desconectado del servidor]"
)

func connectionErrorNotice(err error) string {
	return fmt.Sprintf("[Error de conexión]: %v", err)
}
