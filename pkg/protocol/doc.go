// Package protocol defines the JSON frames exchanged between the thin
// client and a live session over a websocket.
//
// Every frame is a JSON object with a "type" member:
//
//	client → server
//	  {"type":"hello","caps":{"intersectionObserver":true}}
//	  {"type":"hook","key":"r3","name":"intersect","data":{}}
//	  {"type":"tab","group":"button","tab":"states"}
//
//	server → client
//	  {"type":"transition","key":"r3","style":"...","transition":"..."}
//	  {"type":"revealed","key":"r3"}
//	  {"type":"replace","target":"button-panel","html":"..."}
//	  {"type":"error","code":"E210","message":"session not found"}
//
// Frames larger than MaxFrameSize are rejected before parsing.
package protocol
