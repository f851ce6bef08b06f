// Package tools exposes the WebScraping.AI operations as named tools.
//
// The Router maps a tool name and its argument object to a call of
// webscraping.API and packs the outcome into a Result envelope.
// It never returns an error: validation failures, unknown tools and
// upstream errors all become a Result with IsError set.
//
// Each tool is also available as an ITool for agents and CLI callers.
package tools
