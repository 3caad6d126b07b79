// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for port interfaces. Hand-written doubles for simple cases live in the
// auth subpackage; gomock is used where call expectations matter.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for SessionStore interface from internal/ports.
// This creates MockSessionStore with Save, Get, and Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/neduet/campus-api/internal/ports SessionStore
