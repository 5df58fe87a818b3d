package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/database"
	"github.com/KayJJUNE/steam-bot/internal/repository"
	"github.com/KayJJUNE/steam-bot/internal/tools/common"
	"github.com/KayJJUNE/steam-bot/internal/tools/reset"
	"github.com/KayJJUNE/steam-bot/internal/tools/stats"
)

const usage = `usage: questadmin <command>

commands:
  stats                      print quest milestone report
  reset-user <discord-id>    clear one user's quest flags (steam id preserved)
  reset-all --confirm "RESET ALL"
                             clear quest flags for ALL users
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadTooling()
	if err != nil {
		common.PrintCIResult(false, "load config", nil, err)
		os.Exit(1)
	}
	db, err := database.Open(cfg)
	if err != nil {
		common.PrintCIResult(false, "open database", nil, err)
		os.Exit(1)
	}
	users := repository.NewUserRecordRepository(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "stats":
		if err := stats.Run(ctx, users, os.Stdout); err != nil {
			common.PrintCIResult(false, "stats", nil, err)
			os.Exit(1)
		}
	case "reset-user":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		discordID, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			common.PrintCIResult(false, "reset-user", nil, fmt.Errorf("discord id must be numeric: %q", os.Args[2]))
			os.Exit(2)
		}
		if err := reset.User(ctx, users, discordID, os.Stdout); err != nil {
			common.PrintCIResult(false, "reset-user", nil, err)
			os.Exit(1)
		}
	case "reset-all":
		fs := flag.NewFlagSet("reset-all", flag.ExitOnError)
		confirm := fs.String("confirm", "", fmt.Sprintf("must be %q to proceed", reset.ConfirmAllPhrase))
		_ = fs.Parse(os.Args[2:])
		count, err := reset.All(ctx, users, *confirm, os.Stdout)
		if err != nil {
			common.PrintCIResult(false, "reset-all", nil, err)
			os.Exit(1)
		}
		common.PrintCIResult(true, "reset-all", []string{fmt.Sprintf("%d users reset", count)}, nil)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
