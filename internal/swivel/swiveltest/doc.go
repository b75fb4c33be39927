// Package swiveltest runs a fake Swivel agent server for tests.
//
// The server accepts AgentXML login requests, checks the shared secret and
// validates the OTC as a TOTP code, so tests obtain a valid code from Code.
package swiveltest
