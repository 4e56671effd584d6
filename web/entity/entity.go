package entity

// Msg is the JSON envelope every endpoint answers with.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}
