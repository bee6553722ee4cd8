// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/filemill/pkg/batch"
)

// 🖥️ Console renders run progress to a terminal with pterm prefix
// printers, and mirrors everything into zerolog for debugging. The batch
// dispatcher serializes callbacks, so Console needs no locking.
type Console struct {
	log zerolog.Logger // mirror of the console output, for debugging
	out io.Writer
}

// 🎯 NewConsole creates a console observer writing to out.
func NewConsole(ctx context.Context, out io.Writer) *Console {
	return &Console{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (c *Console) OnStart(e batch.StartEvent) {
	msg := FormatStart(e)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).WithWriter(c.out).Println(msg)
	c.log.Info().Str("run_id", e.RunID).Msg(msg)
}

func (c *Console) OnFileComplete(e batch.FileEvent) {
	row := FormatResultRow(e)
	if e.Result.Success {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"}).WithWriter(c.out).Println(row)
		c.log.Info().Str("run_id", e.RunID).Msg(row)
	} else {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(c.out).Println(row)
		pterm.Error.WithWriter(c.out).Println(e.Result.Message)
		c.log.Error().Str("run_id", e.RunID).Str("file", e.Result.File).Msg(e.Result.Message)
	}
	c.log.Debug().Int("processed", e.Seq).Int("total", e.Total).Msg(FormatProgress(e.Seq, e.Total))
}

func (c *Console) OnComplete(e batch.DoneEvent) {
	msg := FormatSummary(e)
	switch {
	case e.GatherErr != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(c.out).Println(msg)
		pterm.Error.WithWriter(c.out).Println(e.GatherErr.Error())
		c.log.Error().Str("run_id", e.RunID).Err(e.GatherErr).Msg(msg)
	case e.Failed() > 0:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).WithWriter(c.out).Println(msg)
		c.log.Warn().Str("run_id", e.RunID).Msg(msg)
	default:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).WithWriter(c.out).Println(msg)
		c.log.Info().Str("run_id", e.RunID).Msg(msg)
	}

	if e.Artifact != "" {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "💾"}).WithWriter(c.out).Println("Combined output: " + e.Artifact)
	}
}
