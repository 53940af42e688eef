package cache

import "strings"

// Keyspace builds namespaced cache keys from logical identifiers. All keys
// produced by one deployment share a fixed application prefix, so distinct
// applications can share a Redis instance without colliding.
//
// Keys follow the form {prefix}:{category}:{identifier}[:{sub-category}],
// e.g. "app:user:123" or "app:search:flight:ICN-NRT". Callers always pass
// un-prefixed logical keys; the prefix is applied exactly once here.
type Keyspace struct {
	prefix string
}

// NewKeyspace creates a keyspace with the given application prefix.
// A trailing separator is stripped so "app" and "app:" are equivalent.
func NewKeyspace(prefix string) Keyspace {
	return Keyspace{prefix: strings.TrimSuffix(prefix, ":")}
}

// Prefix returns the application prefix
func (k Keyspace) Prefix() string {
	return k.prefix
}

// Apply namespaces a pre-joined logical key. Equal raw keys always yield
// equal namespaced keys, and distinct raw keys never collide.
func (k Keyspace) Apply(raw string) string {
	return k.prefix + ":" + raw
}

// Key builds a namespaced key from a category, an identifier, and optional
// sub-category parts.
func (k Keyspace) Key(category, identifier string, sub ...string) string {
	parts := append([]string{k.prefix, category, identifier}, sub...)
	return strings.Join(parts, ":")
}

// Pattern namespaces a glob-style match pattern the same way Apply
// namespaces a key, so "user:*" matches exactly the keys this keyspace
// produced for the user category.
func (k Keyspace) Pattern(raw string) string {
	return k.prefix + ":" + raw
}
