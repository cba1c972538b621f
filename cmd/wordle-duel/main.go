package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cli := NewCLI(os.Stdout, os.Stderr)
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "tree":
		err = cli.Tree(args)
	case "keygen":
		err = cli.Keygen(args)
	case "newid":
		err = cli.NewID()
	case "sign":
		err = cli.Sign(args)
	case "call":
		err = cli.Call(args)
	case "get":
		err = cli.Get(args)
	case "mint":
		err = cli.Mint(args)
	case "balance":
		err = cli.Balance(args)
	case "purge":
		err = cli.Purge(args)
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: wordle-duel <command> [flags]

Commands:
  tree build   build the dictionary Merkle tree and export its levels
  tree path    print the inclusion path of one word
  keygen       create an ed25519 key file and print its address
  newid        print a fresh game id
  sign         add a signature to a call envelope
  call         run a signed call envelope against the host database
  get          print one game
  mint         credit tokens to an address
  balance      print an address balance
  purge        drop expired state
`)
}
