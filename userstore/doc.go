// Package userstore provides durable identity storage backends for the
// engine: a MongoDB-backed store for production and an in-memory store
// for tests and local development. Both enforce email uniqueness at the
// storage layer.
package userstore
