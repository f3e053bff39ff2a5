package remote

import "github.com/rhuss/alloyrpc/pkg/solver"

type parseRequest struct {
	Model string `json:"model"`
}

type commandDTO struct {
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Display string `json:"display"`
}

type parseResponse struct {
	Commands []commandDTO `json:"commands"`
	Warnings []string     `json:"warnings,omitempty"`
}

type solveRequest struct {
	Model   string         `json:"model"`
	Command int            `json:"command"`
	Options solver.Options `json:"options"`
}

type backendsResponse struct {
	Backends []string `json:"backends"`
}

type errorBody struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
