// Package ctxsearch holds the shared model of a context-menu search tool: the
// ordered entry list and preferences persisted in storage, the built-in
// defaults and catalog, the host capabilities (menu surface and tabs) and the
// typed errors returned by the storage, menu and dispatch packages.
//
// The entry list is stored under KeyEntries as a JSON array of
// [identifier, label, template, enabled] tuples; an entry with an empty label
// and template is a separator. The four preferences are stored as separate
// keys and may hold loose values ("true", "FALSE", null) which read as false
// unless they spell true.
package ctxsearch
