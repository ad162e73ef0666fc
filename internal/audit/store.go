// Copyright 2026 FreightOps Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import "context"

// ListFilter narrows an audit event listing
type ListFilter struct {
	EventType string
	ActorID   string
	TenantID  string
	Limit     int
	Offset    int
}

// Store reads back persisted audit events
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]*Event, error)
}
