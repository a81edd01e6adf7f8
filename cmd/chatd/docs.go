package main

// General API documentation for swaggo. Run `swag init -g cmd/chatd/docs.go`
// to generate docs, then build with -tags=swagger.
//
// @title           chatd API
// @version         1.0
// @description     Select, load and chat with one local language model at a time.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
