// Package faults holds the infrastructure error kinds shared by the domain
// services. Validation outcomes live next to the service that produces them.
package faults

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrStorage      = errors.New("storage failure")
	ErrProvisioning = errors.New("provisioning failure")
)

type fault struct {
	kind error
	op   string
	err  error
}

func (f *fault) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.kind, f.op, f.err)
}

func (f *fault) Is(target error) bool {
	return target == f.kind
}

func (f *fault) Unwrap() error {
	return f.err
}

// Storage wraps a persistence error. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("storage call timed out: %w", err)
	}
	return &fault{kind: ErrStorage, op: op, err: err}
}

// Provisioning wraps a failed channel/role call against the chat platform.
func Provisioning(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrProvisioning) {
		return err
	}
	return &fault{kind: ErrProvisioning, op: op, err: err}
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsProvisioning(err error) bool {
	return errors.Is(err, ErrProvisioning)
}
