// Copyright (c) 2025, Atlas Authors.  All rights reserved.
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

// Package probe implements the per-domain readers behind a snapshot:
// platform identity, CPU, memory, disk, and network. Each probe answers
// one domain and fails independently; callers decide how to combine
// results. Probes built by the same Factory share a fact cache so that
// facts which cannot change while the process runs (machine identifier,
// CPU identity) are read once.
//
// Platform-specific readings live in _linux, _darwin, and _windows
// files; on other platforms those facts degrade to absent rather than
// erroring.
package probe
