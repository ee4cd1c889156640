// Copyright 2025 TripAI
// SPDX-License-Identifier: Apache-2.0
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package types provides shared type definitions used across TripAI components.

# Overview

This package contains the trip-planning domain model shared between the
prompt builder, the AI gateway, the places lookup, the trip session store
and the HTTP layer. It provides a single source of truth for the wire
shapes exchanged with the generative-AI endpoint and with the browser
client.

# Monetary amounts

All prices are Vietnamese đồng (VND). They are carried as float64 because
the upstream model returns JSON numbers; callers must not assume integral
values.

# Thread Safety

All types in this package are value types and are safe for concurrent use.
*/
package types
