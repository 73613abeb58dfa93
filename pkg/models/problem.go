package models

// APIProblem represents an RFC 7807 Problem Details response for Swagger docs.
// This type is used only in swagger annotations to describe error responses.
type APIProblem struct {
	Type     string `json:"type" example:"https://netpanel.dev/problems/not-found"`
	Title    string `json:"title" example:"Not Found"`
	Status   int    `json:"status" example:"404"`
	Detail   string `json:"detail,omitempty" example:"host 10084 not found"`
	Instance string `json:"instance,omitempty" example:"/api/v1/hosts/10084"`
}
