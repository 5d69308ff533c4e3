// Package repository provides a generic controller built on Bun for listing,
// counting and searching entities by field or by example, with whitelisted
// ordering, page windows, pluggable predicate providers and transactional
// create, update and delete.
package repository
