// Command train_sentiment trains a TF-IDF plus MLP sentiment classifier on a
// labeled text dataset and keeps the checkpoint with the best validation
// accuracy in the output directory.
//
// Settings come from the built-in defaults, then an optional YAML file given
// with --config, then the command line flags:
//
//	train_sentiment --dataset_name imdb --num_train_epochs 2 --output_dir ./results
package main
