package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// runCommand executes a one-shot command if one was requested and returns its exit code.
func runCommand(cfg types.Config) (bool, int) {
	ctx := context.Background()
	switch {
	case cfg.Save != "":
		saved, err := tool.SaveServerEndpoint(cfg.Save)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return true, 1
		}
		share.SetActiveEndpoint(saved, types.EndpointSourceSaved)
		fmt.Println("Server IP saved successfully:", saved)
		return true, 0

	case cfg.Test != "":
		result := models.GetScanner().TestConnection(ctx, cfg.Test)
		if !result.OK {
			fmt.Fprintf(os.Stderr, "Could not connect to %s (%s", result.Endpoint, result.Cause)
			if result.StatusCode != 0 {
				fmt.Fprintf(os.Stderr, ", status %d", result.StatusCode)
			}
			fmt.Fprintln(os.Stderr, ")")
			return true, 1
		}
		fmt.Printf("Connected to server %s successfully (%v)\n", result.Endpoint, result.Elapsed)
		return true, 0

	case cfg.Discover:
		result := models.GetScanner().ScanNow(ctx)
		if !result.Found {
			fmt.Println("Server: Not detected", "("+result.Reason+")")
			if saved := tool.GetCurrentConfig().ServerEndpoint; saved != "" {
				fmt.Println("Saved endpoint:", saved)
			}
			return true, 1
		}
		fmt.Printf("Server: Connected (%s)\n", result.Endpoint)
		return true, 0

	case cfg.Send != "":
		// background discovery first, exactly like the preview screen
		if _, ok := share.GetActiveEndpoint(); !ok {
			models.GetScanner().ScanNow(ctx)
		}
		endpoint := share.ResolveEndpoint()
		if endpoint != "" {
			_ = notify.SendUploadStartNotification(endpoint, types.ImageReference(cfg.Send))
		}
		result := models.GetUploader().Upload(ctx, endpoint, types.ImageReference(cfg.Send))
		if err := notify.SendUploadResultNotification(result); err != nil {
			tool.DefaultLogger.Debugf("Failed to send upload notification: %v", err)
		}
		title, message := notify.UploadResultMessage(result)
		if !result.OK() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
			tool.DefaultLogger.Debugf("upload failure detail: %v", result.Err())
			return true, 1
		}
		fmt.Printf("%s (%s, %s)\n", message, result.FileName, humanize.Bytes(uint64(result.Bytes)))
		return true, 0

	case cfg.Share != "":
		sharer := models.GetSharer()
		path, err := sharer.Share(ctx, types.ImageReference(cfg.Share))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return true, 1
		}
		fmt.Println("Shared to", path)
		return true, 0

	case cfg.Status:
		status, err := models.GetUploader().FetchServerStatus(ctx, share.ResolveEndpoint())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return true, 1
		}
		fmt.Printf("Server %s (%s) on %s\n", status.Status, status.Network.URL, status.Network.Hostname)
		fmt.Printf("Upload directory: %s\n", status.UploadFolder)
		fmt.Printf("Recent Uploads (%d)\n", status.FileCount)
		for _, name := range status.RecentFiles {
			fmt.Println("  " + name)
		}
		return true, 0
	}
	return false, 0
}
