// subway — инструмент командной строки для управления станциями
// и линиями метро через HTTP API.
//
// Использование:
//
//	subway [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	station  Управление станциями
//	line     Управление линиями и их sections
//	seed     Загрузка сети из YAML файла
package main

import (
	"fmt"
	"os"

	"github.com/shaiso/subway/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
