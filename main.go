package main

import "github.com/ugent-library/coffee-shop-env/cli"

func main() {
	cli.Execute()
}
