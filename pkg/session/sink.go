package session

// Sink is where the session displays the conversation. Except for the
// echo of locally sent messages, it is only called from tasks executed
// by the dispatcher.
type Sink interface {
	AppendLine(text string)
	ScrollToBottom()
}
