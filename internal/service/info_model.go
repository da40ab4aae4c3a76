package service

import (
	"github.com/prismaasset360/web/internal/apiclient"
)

// Info needed for a service to reach the backend.
type Info struct {
	Client apiclient.Requester
}
