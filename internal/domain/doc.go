// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (symbol.go, quote.go, news.go, sentiment.go, envelope.go, ...)
// hold the shared payload types and the narrow collaborator contracts the core consumes.
// No I/O here - adapters implement the interfaces, the app layer composes them.
package domain
