package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/tollgen/internal/persist"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "connection", err: &persist.ConnectionError{Target: "mysql://localhost:3306/tollgen", Err: errors.New("refused")}, want: 1},
		{name: "transaction", err: &persist.TransactionError{Op: "commit", Err: errors.New("bad connection")}, want: 1},
		{name: "schema", err: &ontology.SchemaFormatError{Err: errors.New("bad yaml")}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
