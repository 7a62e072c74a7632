package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chromedp/chromedp"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/materials/internal/anchor"
	"github.com/patric-chuzhbe/materials/internal/anchor/chromedom"
	"github.com/patric-chuzhbe/materials/internal/config"
	"github.com/patric-chuzhbe/materials/internal/logger"
	"github.com/patric-chuzhbe/materials/internal/material"
	"github.com/patric-chuzhbe/materials/internal/models"
	"github.com/patric-chuzhbe/materials/internal/requester"
	"github.com/patric-chuzhbe/materials/internal/token"
)

var (
	errUsage       = errors.New("usage: materials [flags] <download|get|delete|delete-batch|update|page|whoami|anchor> [arguments]")
	errNotSignedIn = errors.New("no session token stored")
)

type application interface {
	Config() *config.Config
	Tokens() token.Store
	Client() *material.Client
}

type command struct {
	args int
	// variadic commands take args or more arguments
	variadic bool
	run      func(ctx context.Context, a application, args []string, out io.Writer) error
}

var commands = map[string]command{
	"download":     {args: 0, variadic: true, run: downloadCommand},
	"get":          {args: 1, run: getCommand},
	"delete":       {args: 1, run: deleteCommand},
	"delete-batch": {args: 1, variadic: true, run: deleteBatchCommand},
	"update":       {args: 1, run: updateCommand},
	"page":         {args: 2, run: pageCommand},
	"whoami":       {args: 0, run: whoamiCommand},
	"anchor":       {args: 2, run: anchorCommand},
}

func execute(ctx context.Context, a application, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	cmdArgs := args[1:]
	if len(cmdArgs) < cmd.args || (!cmd.variadic && len(cmdArgs) > cmd.args) {
		return fmt.Errorf("wrong number of arguments for %q: %w", args[0], errUsage)
	}

	return cmd.run(ctx, a, cmdArgs, out)
}

func downloadCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	if len(args) > 1 {
		return fmt.Errorf("wrong number of arguments for %q: %w", "download", errUsage)
	}

	resp, err := a.Client().DownloadMaterials(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err = out.Write(resp.Body)
		return err
	}

	err = os.WriteFile(args[0], resp.Body, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "saved %d bytes to %s\n", len(resp.Body), args[0])

	return err
}

func getCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	resp, err := a.Client().GetMaterial(ctx, args[0])
	if err != nil {
		return err
	}

	return printBody(out, resp)
}

func deleteCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	resp, err := a.Client().DeleteMaterial(ctx, args[0])
	if err != nil {
		return err
	}

	return printBody(out, resp)
}

func deleteBatchCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	ids := models.MaterialIDs(funk.UniqString(args))

	resp, err := a.Client().DeleteMaterialBatch(ctx, ids)
	if err != nil {
		return err
	}

	return printBody(out, resp)
}

func updateCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	var data models.Material
	if err := json.Unmarshal([]byte(args[0]), &data); err != nil {
		return fmt.Errorf("parsing the material: %w", err)
	}
	if data.ID() == "" {
		return models.ErrMaterialWithoutID
	}

	resp, err := a.Client().UpdateMaterial(ctx, data)
	if err != nil {
		return err
	}

	return printBody(out, resp)
}

func pageCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	current, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing the page number: %w", err)
	}
	pageSize, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parsing the page size: %w", err)
	}

	resp, err := a.Client().GetMaterialPageInfo(ctx, current, pageSize)
	if err != nil {
		return err
	}

	return printBody(out, resp)
}

func whoamiCommand(_ context.Context, a application, _ []string, out io.Writer) error {
	user, err := token.GetTokenData[models.UserInfo](a.Tokens())
	if err != nil {
		return err
	}
	if user == nil {
		return errNotSignedIn
	}

	user.Token = ""
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(user)
}

func anchorCommand(ctx context.Context, a application, args []string, out io.Writer) error {
	pageURL, anchorName := args[0], args[1]

	browserCtx, cancel, err := chromedom.NewBrowser(ctx, true)
	if err != nil {
		return err
	}
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(pageURL)); err != nil {
		return fmt.Errorf("opening %s: %w", pageURL, err)
	}

	err = anchor.Scroll(
		browserCtx,
		chromedom.Host{},
		anchorName,
		anchor.WithNavHeightProperty(a.Config().NavHeightProperty),
	)
	if err != nil {
		return err
	}

	var scrollY float64
	if err := chromedp.Run(browserCtx, chromedp.Evaluate(`window.scrollY`, &scrollY)); err != nil {
		logger.Log.Debugln("Error reading `window.scrollY`: ", zap.Error(err))
	}
	_, err = fmt.Fprintf(out, "scrolled to #%s (scrollY %g)\n", anchorName, scrollY)

	return err
}

// printBody writes the response body, indenting it when it is JSON.
func printBody(out io.Writer, resp *requester.Response) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(resp.Body), "", "  "); err != nil {
		_, err = out.Write(resp.Body)
		return err
	}
	indented.WriteByte('\n')

	_, err := indented.WriteTo(out)
	return err
}
