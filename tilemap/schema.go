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

// Package tilemap interprets a DATAFILE as a 2D tile map: known item-type
// schemas (version, info, images, envelopes, groups, layers), tile/quad
// layer payloads, and the scrambled short-string name packing used
// throughout the format.
package tilemap

// Known item-type IDs.
const (
	ItemVersion   = 0
	ItemInfo      = 1
	ItemImage     = 2
	ItemEnvelope  = 3
	ItemGroup     = 4
	ItemLayer     = 5
	ItemEnvPoints = 6
)

// MapVersion is the only VERSION item value a Map accepts.
const MapVersion = 1

// Layer types, as found in a LAYER item's Type field.
const (
	LayerTypeInvalid = 0
	LayerTypeGame    = 1
	LayerTypeTiles   = 2
	LayerTypeQuads   = 3
)

// Tile flags.
const (
	TileFlagVFlip  = 1
	TileFlagHFlip  = 2
	TileFlagOpaque = 4
	TileFlagRotate = 8
)

// LayerFlagDetail marks a layer as a detail (non-gameplay) layer.
const LayerFlagDetail = 1

// TilesLayerFlagGame marks a tile layer as the collision/gameplay layer.
const TilesLayerFlagGame = 1

// Envelope curve types.
const (
	CurveStep = iota
	CurveLinear
	CurveSlow
	CurveFast
	CurveSmooth
	CurveBezier
)

// Tile type constants for the gameplay layer's collision indices.
const (
	TileAir    = 0
	TileSolid  = 1
	TileDeath  = 2
	TileNoHook = 3
)

// EntityOffset is the first tile index the gameplay layer reserves for
// entities (spawns, pickups, weapons) rather than collision shapes.
const EntityOffset = 255 - 16*4

// Entity tile indices, relative to EntityOffset. EntityNullID occupies the
// first slot ("no entity") so every following ID lines up with the value a
// real map actually stores for that entity.
const (
	EntityNullID = EntityOffset + iota
	EntitySpawnID
	EntitySpawnRedID
	EntitySpawnBlueID
	EntityFlagstandRedID
	EntityFlagstandBlueID
	EntityArmor1ID
	EntityHealth1ID
	EntityWeaponShotgunID
	EntityWeaponGrenadeID
	EntityPowerupNinjaID
	EntityWeaponLaserID
	numEntities
)
