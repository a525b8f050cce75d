// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes local configuration and the offline cache
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and offline cache database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, register, and inspect the session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with username and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Account username",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show session state and token expiry",
				Action: r.AuthStatus,
			},
		},
	}
}

// snippetsCommand handles snippet CRUD and discovery
func snippetsCommand(r *Runner) *cli.Command {
	scopeFlag := &cli.StringFlag{
		Name:    "scope",
		Aliases: []string{"s"},
		Usage:   "Collection scope: mine, public, or favorites",
		Value:   "mine",
	}
	jsonFlag := &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
	prettyFlag := &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print output",
	}
	idFlag := &cli.Int64Flag{
		Name:     "id",
		Usage:    "Snippet id",
		Required: true,
	}
	contentFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read snippet content from a file",
		},
		&cli.BoolFlag{
			Name:  "stdin",
			Usage: "Read snippet content from stdin",
		},
	}

	return &cli.Command{
		Name:    "snippets",
		Aliases: []string{"snip"},
		Usage:   "Snippet operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a scope's snippets, from cache when offline",
				Flags: []cli.Flag{
					scopeFlag,
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "Filter by language tag",
					},
					&cli.BoolFlag{
						Name:  "facets",
						Usage: "Print per-language counts instead of snippets",
					},
					jsonFlag,
					prettyFlag,
				},
				Action: r.SnippetsList,
			},
			{
				Name:  "search",
				Usage: "Search a scope by keyword",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "keyword",
					},
				},
				Flags:  []cli.Flag{scopeFlag, jsonFlag, prettyFlag},
				Action: r.SnippetsSearch,
			},
			{
				Name:  "show",
				Usage: "Show one snippet rendered as Markdown",
				Flags: append([]cli.Flag{
					idFlag,
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Fetch through the public endpoint",
					},
					&cli.BoolFlag{
						Name:  "copy",
						Usage: "Copy the snippet content to the clipboard",
					},
				}, jsonFlag, prettyFlag),
				Action: r.SnippetsShow,
			},
			{
				Name:  "create",
				Usage: "Create a snippet",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Snippet title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "language",
						Aliases:  []string{"l"},
						Usage:    "Language tag",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated tags",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "Make the snippet publicly visible",
					},
				}, contentFlags...),
				Action: r.SnippetsCreate,
			},
			{
				Name:  "edit",
				Usage: "Update an owned snippet",
				Flags: append([]cli.Flag{
					idFlag,
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "New title",
					},
					&cli.StringFlag{
						Name:    "language",
						Aliases: []string{"l"},
						Usage:   "New language tag",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Replacement comma-separated tags",
					},
					&cli.BoolFlag{
						Name:  "public",
						Usage: "New visibility",
					},
				}, contentFlags...),
				Action: r.SnippetsEdit,
			},
			{
				Name:   "delete",
				Usage:  "Delete an owned snippet",
				Flags:  []cli.Flag{idFlag},
				Action: r.SnippetsDelete,
			},
			{
				Name:    "favorite",
				Aliases: []string{"star"},
				Usage:   "Toggle a snippet's favorite flag",
				Flags:   []cli.Flag{idFlag},
				Action:  r.SnippetsFavorite,
			},
			{
				Name:  "tags",
				Usage: "List tags across the vault",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "popular",
						Usage: "Only the most used tags",
					},
					jsonFlag,
					prettyFlag,
				},
				Action: r.SnippetsTags,
			},
		},
	}
}

// shareCommand handles public share links and the local preview server
func shareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Share links for public snippets",
		Commands: []*cli.Command{
			{
				Name:  "link",
				Usage: "Print the share URL for a public snippet",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Snippet id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "copy",
						Usage: "Copy the URL to the clipboard",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the URL in the default browser",
					},
				},
				Action: r.ShareLink,
			},
			{
				Name:  "serve",
				Usage: "Run the local share preview server",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Listen port (defaults to config)",
					},
				},
				Action: r.ShareServe,
			},
		},
	}
}

// cacheCommand handles the offline snippet cache
func cacheCommand(r *Runner) *cli.Command {
	scopeFlag := &cli.StringFlag{
		Name:    "scope",
		Aliases: []string{"s"},
		Usage:   "Limit to one scope: mine, public, or favorites",
	}

	return &cli.Command{
		Name:  "cache",
		Usage: "Offline snippet cache operations",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Refresh the offline cache from the vault service",
				Flags:  []cli.Flag{scopeFlag},
				Action: r.CacheSync,
			},
			{
				Name:   "status",
				Usage:  "Show per-scope sync recency and counts",
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Remove cached snippets",
				Flags:  []cli.Flag{scopeFlag},
				Action: r.CacheClear,
			},
		},
	}
}

// exportCommand writes a scope's snippets to local files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a scope's snippets to local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scope",
				Aliases: []string{"s"},
				Usage:   "Collection scope: mine, public, or favorites",
				Value:   "mine",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: source, markdown, txt, json",
				Value:   "source",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.Int64Flag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent export workers",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Re-fetch each public snippet before exporting",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
