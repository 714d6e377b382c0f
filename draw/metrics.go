// This file is part of go-mc/server project.
// Copyright (C) 2023.  Tnze
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package draw

import "github.com/prometheus/client_golang/prometheus"

var (
	opsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fcraft",
		Subsystem: "draw",
		Name:      "operations_started_total",
		Help:      "Draw operations started, by shape.",
	}, []string{"shape"})
	opsCancelled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fcraft",
		Subsystem: "draw",
		Name:      "operations_cancelled_total",
		Help:      "Draw operations cancelled before finishing, by shape.",
	}, []string{"shape"})
	blocksDrawn = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fcraft",
		Subsystem: "draw",
		Name:      "blocks_changed_total",
		Help:      "Blocks changed by draw operations.",
	})
	blocksDenied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fcraft",
		Subsystem: "draw",
		Name:      "blocks_denied_total",
		Help:      "Blocks skipped because the player was not allowed to place them.",
	})
)

func init() {
	prometheus.MustRegister(opsStarted, opsCancelled, blocksDrawn, blocksDenied)
}
