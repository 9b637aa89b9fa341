// Package service implements the procedures' business logic.
//
// Services receive validated inputs from the RPC dispatcher and talk to
// storage through the repositories. They return storage errors untouched so
// the dispatcher can classify them once.
package service
