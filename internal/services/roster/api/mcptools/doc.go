// Package mcptools exposes roster operations as MCP tools and the live
// rosters as MCP resources.
//
// Each tool resolves its caller first, either from a signed caller grant or,
// when grant verification is not configured, from the identity fields of the
// request. Rejections are rendered as localized messages; infrastructure
// failures are logged and surface as a generic error.
package mcptools
