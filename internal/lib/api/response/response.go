package response

type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func OK() Response {
	return Response{OK: true}
}

func Error(msg string) Response {
	return Response{
		OK:    false,
		Error: msg,
	}
}
