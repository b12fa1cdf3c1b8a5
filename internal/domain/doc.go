// Package domain contains the core domain model for cdrtools.
//
// The domain is transport- and persistence-agnostic: it does not depend on JSON
// decoding, net/http, or the filesystem. Infra/adapters map into/from these types.
package domain
