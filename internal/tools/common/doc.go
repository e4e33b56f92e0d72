// Package common provides shared utilities for MCP tool implementations:
// the instrumented handler wrapper, argument helpers and result builders.
package common
