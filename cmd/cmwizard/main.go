package main

import (
	"cmwizard/cmd/cmwizard/commands"
	"cmwizard/internal/components/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
