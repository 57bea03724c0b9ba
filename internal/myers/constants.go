// Copyright 2025 Florian Zenker (flo@znkr.io)
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

package myers

// packedLimit is the exclusive upper bound of the input length for the packed representation. Every
// coordinate, including the end of an input, must fit into 16 bits.
const packedLimit = 0xFFFF

// Bit layout of packed values.
const (
	fieldBits = 16
	fieldMask = 1<<fieldBits - 1
)
