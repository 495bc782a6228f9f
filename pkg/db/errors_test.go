package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint []string
		want       bool
	}{
		{name: "nil error", err: nil, want: false},
		{
			name: "postgres duplicate key",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_usuarios_correo" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "sqlite unique constraint",
			err:  errors.New("UNIQUE constraint failed: usuarios.correo"),
			want: true,
		},
		{
			name:       "named constraint matches",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "idx_usuarios_codigo" (SQLSTATE 23505)`),
			constraint: []string{"idx_usuarios_codigo"},
			want:       true,
		},
		{
			name:       "named constraint differs",
			err:        errors.New(`ERROR: duplicate key value violates unique constraint "idx_usuarios_codigo" (SQLSTATE 23505)`),
			constraint: []string{"idx_usuarios_correo"},
			want:       false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint...); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %v) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
