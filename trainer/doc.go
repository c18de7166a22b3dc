// Package trainer drives a training run: it prepares the data, builds the
// classifier, runs the epoch loop with a per-epoch evaluation and keeps the
// best checkpoint seen so far on disk.
package trainer
