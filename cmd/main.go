package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/auth"
	"rollbook/backend/internal/commands"
	"rollbook/backend/internal/pkg/config"
	"rollbook/backend/internal/pkg/repository/postgresql"
	"rollbook/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		if errors.Cause(err) != commands.ErrHelp {
			log.Fatalln("main error:", err)
		}
	}
}

func run() error {
	var flags struct {
		Web struct {
			Port string `conf:"default::8080"`
		}
		Args conf.Args
	}

	if err := conf.Parse(os.Args[1:], "ROLLBOOK", &flags); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("ROLLBOOK", &flags)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		default:
			return errors.Wrap(err, "parsing flags")
		}
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config.yaml")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return errors.Wrap(err, "loading timezone")
	}

	postgresDB := postgresql.NewDB(cfg)

	commands.MigrateUP(postgresDB)
	if flags.Args.Num(0) == "migrate" {
		return nil
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	authenticator, err := auth.New(cfg.JWTKeyPath)
	if err != nil {
		return errors.Wrap(err, "constructing authenticator")
	}

	r := router.NewRouter(
		web.NewApp(),
		postgresDB,
		redisDB,
		flags.Web.Port,
		authenticator,
		cfg,
		loc,
	)

	return r.Init()
}
