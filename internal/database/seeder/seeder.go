// Package seeder loads an initial team roster into the member store.
package seeder

import "context"

type Seeder interface {
	Name() string
	Run(ctx context.Context) error
}
