package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNoWorkInformation = errors.New("you don't have work information filled or your employee detail is not entered")
)
