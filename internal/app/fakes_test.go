package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/mapart"
	"github.com/louisbranch/turfwars/internal/storage"
	"github.com/louisbranch/turfwars/internal/transport"
)

type sentText struct {
	channelID int64
	text      string
	keyboard  [][]string
}

type sentImage struct {
	channelID int64
	image     transport.ImagePayload
	caption   string
}

type fakeMessenger struct {
	mu     sync.Mutex
	texts  []sentText
	images []sentImage
	handle string
}

func (f *fakeMessenger) SendText(ctx context.Context, channelID int64, text string, keyboard [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentText{channelID: channelID, text: text, keyboard: keyboard})
	return nil
}

func (f *fakeMessenger) SendImage(ctx context.Context, channelID int64, image transport.ImagePayload, caption string, keyboard [][]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, sentImage{channelID: channelID, image: image, caption: caption})
	return f.handle, nil
}

func (f *fakeMessenger) lastText() sentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return sentText{}
	}
	return f.texts[len(f.texts)-1]
}

type recordedHandle struct {
	artifactID int64
	handle     string
}

type fakeMapCache struct {
	payload  mapart.Payload
	getErr   error
	recorded []recordedHandle
}

func (f *fakeMapCache) Get(ctx context.Context) (mapart.Payload, error) {
	if f.getErr != nil {
		return mapart.Payload{}, f.getErr
	}
	return f.payload, nil
}

func (f *fakeMapCache) RecordHandle(ctx context.Context, artifactID int64, handle string) error {
	f.recorded = append(f.recorded, recordedHandle{artifactID: artifactID, handle: handle})
	return nil
}

type fakeStandings struct {
	standings map[domain.TeamID]domain.TeamStanding
}

func (f *fakeStandings) OwnershipSummary(ctx context.Context) (map[domain.TeamID]domain.TeamStanding, error) {
	return f.standings, nil
}

type notice struct {
	channelID int64
	text      string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (f *fakeNotifier) Notify(channelID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, notice{channelID: channelID, text: text})
}

func (f *fakeNotifier) Broadcast(text string, exclude ...domain.TeamID) {}

type fakeOwnership struct {
	free      []string
	transfers []string
}

func (f *fakeOwnership) Transfer(ctx context.Context, districtName string, newOwner domain.TeamID) error {
	f.transfers = append(f.transfers, districtName)
	return nil
}

func (f *fakeOwnership) FreeDistrictNames(ctx context.Context) ([]string, error) {
	return f.free, nil
}

func (f *fakeOwnership) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	return nil, nil
}

// fakeStore implements storage.Store for bootstrap tests.
type fakeStore struct {
	seeded    []domain.District
	seedCalls int
	hasRows   bool

	artifacts []domain.MapArtifact
}

func (f *fakeStore) SeedDistricts(ctx context.Context, districts []domain.District) (bool, error) {
	f.seedCalls++
	if f.hasRows {
		return false, nil
	}
	f.seeded = districts
	f.hasRows = true
	return true, nil
}

func (f *fakeStore) ListDistricts(ctx context.Context) ([]domain.District, error) {
	return f.seeded, nil
}

func (f *fakeStore) FreeDistrictNames(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) SetDistrictOwner(ctx context.Context, districtName string, owner domain.TeamID) error {
	return nil
}

func (f *fakeStore) OwnerCounts(ctx context.Context) (map[domain.TeamID]int, error) {
	return nil, nil
}

func (f *fakeStore) AppendArtifact(ctx context.Context, imageAssetRef string) (domain.MapArtifact, error) {
	artifact := domain.MapArtifact{ID: int64(len(f.artifacts) + 1), ImageAssetRef: imageAssetRef}
	f.artifacts = append(f.artifacts, artifact)
	return artifact, nil
}

func (f *fakeStore) CurrentArtifact(ctx context.Context) (domain.MapArtifact, error) {
	if len(f.artifacts) == 0 {
		return domain.MapArtifact{}, fmt.Errorf("artifact log: %w", storage.ErrNotFound)
	}
	return f.artifacts[len(f.artifacts)-1], nil
}

func (f *fakeStore) SetArtifactHandleIfCurrent(ctx context.Context, artifactID int64, handle string) (bool, error) {
	return false, nil
}

type fakeRebuilder struct {
	calls int
}

func (f *fakeRebuilder) Rebuild(ctx context.Context) error {
	f.calls++
	return nil
}
