// Copyright 2026 The Pixelgrid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tilemap

import "testing"

func TestEntityConstantsRelativeToOffset(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		got  int
		want int
	}{
		{"EntityNullID", EntityNullID - EntityOffset, 0},
		{"EntitySpawnID", EntitySpawnID - EntityOffset, 1},
		{"EntitySpawnRedID", EntitySpawnRedID - EntityOffset, 2},
		{"EntitySpawnBlueID", EntitySpawnBlueID - EntityOffset, 3},
		{"EntityFlagstandRedID", EntityFlagstandRedID - EntityOffset, 4},
		{"EntityFlagstandBlueID", EntityFlagstandBlueID - EntityOffset, 5},
		{"EntityArmor1ID", EntityArmor1ID - EntityOffset, 6},
		{"EntityHealth1ID", EntityHealth1ID - EntityOffset, 7},
		{"EntityWeaponShotgunID", EntityWeaponShotgunID - EntityOffset, 8},
		{"EntityWeaponGrenadeID", EntityWeaponGrenadeID - EntityOffset, 9},
		{"EntityPowerupNinjaID", EntityPowerupNinjaID - EntityOffset, 10},
		{"EntityWeaponLaserID", EntityWeaponLaserID - EntityOffset, 11},
		{"numEntities", numEntities - EntityOffset, 12},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.got != tc.want {
				t.Errorf("%s - EntityOffset = %d, want %d", tc.name, tc.got, tc.want)
			}
		})
	}
}
