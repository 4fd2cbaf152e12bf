/*
 * Mutation - zone changes applied by a commit.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package commit

import "bind-dns-manager/internal/zonefile"

// Mutation turns the zone read from the server into the zone to commit. It
// must not modify its argument.
type Mutation func(z *zonefile.Zone) (*zonefile.Zone, error)

// AddRecord adds the record described by spec.
func AddRecord(spec zonefile.RecordSpec) Mutation {
	return func(z *zonefile.Zone) (*zonefile.Zone, error) {
		return zonefile.AddRecord(z, spec)
	}
}

// UpdateRecord replaces the record id with spec.
func UpdateRecord(id string, spec zonefile.RecordSpec) Mutation {
	return func(z *zonefile.Zone) (*zonefile.Zone, error) {
		return zonefile.UpdateRecord(z, id, spec)
	}
}

// DeleteRecord removes the record id.
func DeleteRecord(id string) Mutation {
	return func(z *zonefile.Zone) (*zonefile.Zone, error) {
		return zonefile.DeleteRecord(z, id)
	}
}
