// Package outlook implements the six mailbox operations on top of Microsoft
// Graph: sending and reading mail, creating and listing calendar events, and
// searching and creating personal contacts.
//
// Each operation issues exactly one Graph request and reshapes the response
// into a flat record. Errors from Graph are returned unchanged so the caller
// can surface Graph's own message.
package outlook
