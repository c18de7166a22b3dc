package config

import "strings"

import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"

import "github.com/neurlang/textclassifier/parallel"

// Target describes where the numeric work of a run executes.
type Target struct {
	Name    string
	Brand   string
	Threads int

	// SIMD extensions available to the matrix kernels.
	AVX2 bool
	FMA3 bool
}

// ComputeTarget resolves the configured device. Only the CPU is supported;
// "auto" and the empty string resolve to it.
func (r TrainingRun) ComputeTarget() (Target, error) {
	switch strings.ToLower(r.Device) {
	case "", "auto", "cpu":
	default:
		return Target{}, errors.Wrapf(ErrConfig, "unsupported device %q", r.Device)
	}
	return Target{
		Name:    "cpu",
		Brand:   cpuid.CPU.BrandName,
		Threads: parallel.Threads(),
		AVX2:    cpuid.CPU.Supports(cpuid.AVX2),
		FMA3:    cpuid.CPU.Supports(cpuid.FMA3),
	}, nil
}
