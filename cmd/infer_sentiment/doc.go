// Command infer_sentiment reloads a checkpoint written by train_sentiment and
// reports its accuracy on the test split of a dataset.
package main
