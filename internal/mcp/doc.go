// Package mcp serves the distiller over the Model Context Protocol.
//
// The server uses github.com/modelcontextprotocol/go-sdk/mcp and exposes
// distill_json_content, json_shape_fingerprint and the registry tools
// tool_search and tool_list. Unparseable input is reported as a JSON-RPC
// invalid params error (-32602); distillation failures as an internal
// error (-32603).
package mcp
