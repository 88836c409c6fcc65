package interfaces

// Model is a record addressed by a caller-chosen string key.
type Model interface {
	GetID() string
	SetID(id string)
}
