package notify

// Notifier delivers user-facing messages.
//
//go:generate go run go.uber.org/mock/mockgen -source=notify.go -destination=mocks/mock.go
type Notifier interface {
	// Alert reports a problem the user has to act on.
	Alert(msg string)
	// Info confirms a completed action.
	Info(msg string)
}
