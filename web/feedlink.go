package web

import (
	"fmt"

	"github.com/deemkeen/bnotas/util"
)

// FeedTokenReader looks up the feed token issued to a device.
type FeedTokenReader interface {
	ReadFeedToken(deviceKey string) (string, error)
}

// FeedLinks builds the public reminder feed address of a device.
type FeedLinks struct {
	conf   *util.AppConfig
	tokens FeedTokenReader
}

func NewFeedLinks(conf *util.AppConfig, tokens FeedTokenReader) *FeedLinks {
	return &FeedLinks{conf: conf, tokens: tokens}
}

func (f *FeedLinks) FeedURL(deviceKey string) (string, error) {
	token, err := f.tokens.ReadFeedToken(deviceKey)
	if err != nil {
		return "", fmt.Errorf("reading feed token: %w", err)
	}
	return fmt.Sprintf("%s/feed/%s", f.conf.BaseURL(), token), nil
}
