package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/danmuck/bridgectl/internal/interaction"
	"github.com/danmuck/bridgectl/internal/item"
)

const adminReadTimeout = 30 * time.Second

// controlRequest is one admin action envelope.
type controlRequest struct {
	Action   string          `json:"action"`
	Target   string          `json:"target,omitempty"`
	Locale   string          `json:"locale,omitempty"`
	Command  string          `json:"command,omitempty"`
	Item     json.RawMessage `json:"item,omitempty"`
	Interact *interactInput  `json:"interact,omitempty"`
}

// controlResponse is one admin action result envelope.
type controlResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type interactInput struct {
	BlockJavaID int32      `json:"block_java_id"`
	Block       string     `json:"block"`
	Item        string     `json:"item"`
	Sneaking    bool       `json:"sneaking"`
	Position    [3]float32 `json:"position"`
}

type translateItemResponse struct {
	Item string         `json:"item"`
	Kind string         `json:"kind"`
	Tag  map[string]any `json:"tag"`
	NBT  []byte         `json:"nbt"`
}

type soundEventView struct {
	SoundType uint32     `json:"sound_type"`
	Position  [3]float32 `json:"position"`
	ExtraData int32      `json:"extra_data"`
	Wire      []byte     `json:"wire"`
}

type interactResponse struct {
	Handled bool             `json:"handled"`
	Events  []soundEventView `json:"events"`
	Dropped uint64           `json:"dropped"`
}

// serveAdminControl exposes a TCP JSON-lines request/response endpoint.
func (s *Service) serveAdminControl(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", strings.TrimSpace(addr))
	if err != nil {
		return err
	}
	defer ln.Close()
	log.Info().Str("addr", ln.Addr().String()).Msg("bridge.admin listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleAdminConn(conn)
	}
}

// handleAdminConn decodes one request per line and writes one response per line.
func (s *Service) handleAdminConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	active := s.adminClientCount.Add(1)
	log.Info().Str("remote", remote).Int64("active_clients", active).Msg("bridge.admin client connected")
	defer func() {
		remaining := s.adminClientCount.Add(-1)
		log.Info().Str("remote", remote).Int64("active_clients", remaining).Msg("bridge.admin client disconnected")
	}()

	reader := bufio.NewReader(conn)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(adminReadTimeout))
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Msg("bridge.admin read")
			}
			return
		}
		var req controlRequest
		if err := json.Unmarshal(line, &req); err != nil {
			_ = writeControlResponse(conn, controlResponse{OK: false, Error: err.Error()})
			continue
		}
		resp := s.handleControlRequest(req)
		if err := writeControlResponse(conn, resp); err != nil {
			log.Warn().Err(err).Msg("bridge.admin write")
			return
		}
	}
}

// handleControlRequest dispatches admin actions to service methods.
func (s *Service) handleControlRequest(req controlRequest) controlResponse {
	switch strings.TrimSpace(req.Action) {
	case "status":
		return controlResponse{OK: true, Data: s.Status()}
	case "reload":
		result, err := s.ReloadFor(req.Target, req.Locale)
		if err != nil {
			// busy and failed reloads still carry the localized lines
			return controlResponse{OK: false, Error: err.Error(), Data: result}
		}
		return controlResponse{OK: true, Data: result}
	case "suggestions":
		return controlResponse{OK: true, Data: s.Suggestions()}
	case "suggestion":
		desc, ok := s.Suggestion(strings.TrimSpace(req.Command))
		return controlResponse{
			OK: true,
			Data: map[string]any{
				"found":       ok,
				"command":     req.Command,
				"description": desc,
			},
		}
	case "translate_item":
		out, err := s.translateItemRequest(req)
		if err != nil {
			return controlResponse{OK: false, Error: err.Error()}
		}
		return controlResponse{OK: true, Data: out}
	case "interact":
		out, err := s.interactRequest(req)
		if err != nil {
			return controlResponse{OK: false, Error: err.Error()}
		}
		return controlResponse{OK: true, Data: out}
	default:
		return controlResponse{OK: false, Error: fmt.Sprintf("%v: %s", ErrUnknownAction, req.Action)}
	}
}

func (s *Service) translateItemRequest(req controlRequest) (translateItemResponse, error) {
	if len(req.Item) == 0 {
		return translateItemResponse{}, errors.New("bridge: translate_item requires item")
	}
	d, err := item.ParseDescription(req.Item)
	if err != nil {
		return translateItemResponse{}, err
	}
	tree := s.TranslateItem(d, req.Locale)
	nbt, err := tree.MarshalNBT()
	if err != nil {
		return translateItemResponse{}, fmt.Errorf("bridge: encode item nbt: %w", err)
	}
	return translateItemResponse{
		Item: d.ID(),
		Kind: s.engine.KindOf(d.ID()).String(),
		Tag:  tree.Map(),
		NBT:  nbt,
	}, nil
}

// interactRequest runs one interaction on a throwaway session and reports
// what it would have sent.
func (s *Service) interactRequest(req controlRequest) (interactResponse, error) {
	if req.Interact == nil {
		return interactResponse{}, errors.New("bridge: interact requires interact")
	}
	in := req.Interact
	sess := s.NewSession(req.Locale)
	handled := sess.Interact(interaction.Input{
		Block:    interaction.BlockState{JavaID: in.BlockJavaID, Identifier: in.Block},
		HeldItem: in.Item,
		Sneaking: in.Sneaking,
		Position: mgl32.Vec3(in.Position),
	})
	out := interactResponse{Handled: handled, Events: []soundEventView{}}
	for _, pk := range sess.Outbox().Drain() {
		ev, ok := pk.(*packet.LevelSoundEvent)
		if !ok {
			continue
		}
		wire, err := interaction.EncodeSoundEvent(ev)
		if err != nil {
			return interactResponse{}, err
		}
		out.Events = append(out.Events, soundEventView{
			SoundType: ev.SoundType,
			Position:  [3]float32(ev.Position),
			ExtraData: ev.ExtraData,
			Wire:      wire,
		})
	}
	out.Dropped = sess.Outbox().Dropped()
	return out, nil
}

func writeControlResponse(w io.Writer, resp controlResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = w.Write(payload)
	return err
}
