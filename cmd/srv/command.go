package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Name = "ticketx"
	s.app.Usage = "ticket sale and lottery allocation service"
	s.app.Action = cli.ShowAppHelp
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path of the toml configuration file",
			Value: "config.toml",
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the sale, draw and payout endpoints.`,
		},
	}
}

func (s *srv) startApi(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()
	s.loadPublisher()
	s.loadRepos()
	s.loadBaseContext()
	s.loadClients()
	s.loadDomains()
	s.loadRouter()
	return s.startServer()
}
