package main

import "github.com/frahmantamala/expense-ledger/cmd"

func main() {
	cmd.Execute()
}
