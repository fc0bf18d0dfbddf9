// Package gcp resolves the Google credentials and client options shared by every
// managed-service client.
package gcp

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Credentials resolves Application Default Credentials once at startup.
func Credentials(ctx context.Context) (*google.Credentials, error) {
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return creds, nil
}

// RegionalEndpoint returns the gRPC endpoint of service in location, or "" for the
// global endpoint.
func RegionalEndpoint(service, location string) string {
	loc := strings.TrimSpace(location)
	if loc == "" || loc == "global" {
		return ""
	}
	return fmt.Sprintf("%s-%s.googleapis.com:443", loc, service)
}

// ClientOptions builds options for a client using creds and, when set, endpoint.
func ClientOptions(creds *google.Credentials, endpoint string) []option.ClientOption {
	var opts []option.ClientOption
	if creds != nil {
		opts = append(opts, option.WithCredentials(creds))
	}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts
}
