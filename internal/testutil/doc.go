// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing tools and asserting published
// events. These helpers are intentionally minimal and are not intended for
// production usage.
package testutil
