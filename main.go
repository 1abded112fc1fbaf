package main

import "github.com/BricePetit/RenewgyParser/cmd"

func main() {
	cmd.Execute()
}
