package pullrequests

type ConfigureRequest struct {
	Token    string `json:"token" validate:"required"`
	Username string `json:"username"`
}

type CreateRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
	Head  string `json:"head" validate:"required"`
	Base  string `json:"base" validate:"required"`
}
