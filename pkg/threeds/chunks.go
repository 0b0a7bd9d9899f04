package threeds

import "fmt"

// ChunkKind is the 16-bit tag identifying a chunk.
type ChunkKind uint16

// Chunk kinds understood by the importer. Anything else is skipped.
const (
	// Primitive micro-chunks.
	ChunkColorF      ChunkKind = 0x0010 // 3 x float32, 0..1
	ChunkColor24     ChunkKind = 0x0011 // 3 x uint8
	ChunkLinColor24  ChunkKind = 0x0012 // 3 x uint8, gamma-corrected
	ChunkLinColorF   ChunkKind = 0x0013 // 3 x float32, gamma-corrected
	ChunkPercentW    ChunkKind = 0x0030 // int16 percent
	ChunkPercentF    ChunkKind = 0x0031 // float32
	ChunkMasterScale ChunkKind = 0x0100

	// File structure.
	ChunkMain        ChunkKind = 0x4D4D
	ChunkVersion     ChunkKind = 0x0002
	ChunkEditor      ChunkKind = 0x3D3D
	ChunkMeshVersion ChunkKind = 0x3D3E

	// Editor environment.
	ChunkBitmap     ChunkKind = 0x1100
	ChunkUseBitmap  ChunkKind = 0x1101
	ChunkSolidBgnd  ChunkKind = 0x1200
	ChunkAmbient    ChunkKind = 0x2100
	ChunkObject     ChunkKind = 0x4000
	ChunkTriMesh    ChunkKind = 0x4100
	ChunkVertList   ChunkKind = 0x4110
	ChunkFaceList   ChunkKind = 0x4120
	ChunkFaceMat    ChunkKind = 0x4130
	ChunkMapList    ChunkKind = 0x4140
	ChunkSmoothList ChunkKind = 0x4150
	ChunkMeshMatrix ChunkKind = 0x4160
	ChunkLight      ChunkKind = 0x4600
	ChunkCamera     ChunkKind = 0x4700

	// Materials.
	ChunkMaterial     ChunkKind = 0xAFFF
	ChunkMatName      ChunkKind = 0xA000
	ChunkMatAmbient   ChunkKind = 0xA010
	ChunkMatDiffuse   ChunkKind = 0xA020
	ChunkMatSpecular  ChunkKind = 0xA030
	ChunkMatShininess ChunkKind = 0xA040
	ChunkMatShinStr   ChunkKind = 0xA041
	ChunkMatTransp    ChunkKind = 0xA050
	ChunkMatTwoSide   ChunkKind = 0xA081
	ChunkMatSelfIllum ChunkKind = 0xA084
	ChunkMatWire      ChunkKind = 0xA085
	ChunkMatShading   ChunkKind = 0xA100
	ChunkMatTexMap    ChunkKind = 0xA200
	ChunkMatSpecMap   ChunkKind = 0xA204
	ChunkMatOpacMap   ChunkKind = 0xA210
	ChunkMatReflMap   ChunkKind = 0xA220
	ChunkMatBumpMap   ChunkKind = 0xA230
	ChunkMatTex2Map   ChunkKind = 0xA33A
	ChunkMatShinMap   ChunkKind = 0xA33C
	ChunkMatSelfIMap  ChunkKind = 0xA33D

	// Texture map parameters.
	ChunkMapName    ChunkKind = 0xA300
	ChunkMapTiling  ChunkKind = 0xA351
	ChunkMapUScale  ChunkKind = 0xA354
	ChunkMapVScale  ChunkKind = 0xA356
	ChunkMapUOffset ChunkKind = 0xA358
	ChunkMapVOffset ChunkKind = 0xA35A
	ChunkMapAngle   ChunkKind = 0xA35C

	// Keyframer.
	ChunkKeyframer     ChunkKind = 0xB000
	ChunkAmbientNode   ChunkKind = 0xB001
	ChunkObjectNode    ChunkKind = 0xB002
	ChunkCameraNode    ChunkKind = 0xB003
	ChunkTargetNode    ChunkKind = 0xB004
	ChunkLightNode     ChunkKind = 0xB005
	ChunkLTargetNode   ChunkKind = 0xB006
	ChunkSpotlightNode ChunkKind = 0xB007
	ChunkKFSegment     ChunkKind = 0xB008
	ChunkKFCurTime     ChunkKind = 0xB009
	ChunkKFHeader      ChunkKind = 0xB00A
	ChunkNodeHeader    ChunkKind = 0xB010
	ChunkInstanceName  ChunkKind = 0xB011
	ChunkPivot         ChunkKind = 0xB013
	ChunkBoundBox      ChunkKind = 0xB014
	ChunkPosTrack      ChunkKind = 0xB020
	ChunkRotTrack      ChunkKind = 0xB021
	ChunkScaleTrack    ChunkKind = 0xB022
	ChunkNodeID        ChunkKind = 0xB030
)

var chunkNames = map[ChunkKind]string{
	ChunkColorF:        "COLOR_F",
	ChunkColor24:       "COLOR_24",
	ChunkLinColor24:    "LIN_COLOR_24",
	ChunkLinColorF:     "LIN_COLOR_F",
	ChunkPercentW:      "PERCENT_W",
	ChunkPercentF:      "PERCENT_F",
	ChunkMasterScale:   "MASTER_SCALE",
	ChunkMain:          "MAIN",
	ChunkVersion:       "VERSION",
	ChunkEditor:        "EDITOR",
	ChunkMeshVersion:   "MESH_VERSION",
	ChunkBitmap:        "BIT_MAP",
	ChunkUseBitmap:     "USE_BIT_MAP",
	ChunkSolidBgnd:     "SOLID_BGND",
	ChunkAmbient:       "AMBIENT_LIGHT",
	ChunkObject:        "OBJECT",
	ChunkTriMesh:       "TRIMESH",
	ChunkVertList:      "VERT_LIST",
	ChunkFaceList:      "FACE_LIST",
	ChunkFaceMat:       "MSH_MAT_GROUP",
	ChunkMapList:       "TEX_VERTS",
	ChunkSmoothList:    "SMOOTH_GROUP",
	ChunkMeshMatrix:    "MESH_MATRIX",
	ChunkLight:         "LIGHT",
	ChunkCamera:        "CAMERA",
	ChunkMaterial:      "MATERIAL",
	ChunkMatName:       "MAT_NAME",
	ChunkMatAmbient:    "MAT_AMBIENT",
	ChunkMatDiffuse:    "MAT_DIFFUSE",
	ChunkMatSpecular:   "MAT_SPECULAR",
	ChunkMatShininess:  "MAT_SHININESS",
	ChunkMatShinStr:    "MAT_SHIN2PCT",
	ChunkMatTransp:     "MAT_TRANSPARENCY",
	ChunkMatTwoSide:    "MAT_TWO_SIDE",
	ChunkMatSelfIllum:  "MAT_SELF_ILPCT",
	ChunkMatWire:       "MAT_WIRE",
	ChunkMatShading:    "MAT_SHADING",
	ChunkMatTexMap:     "MAT_TEXMAP",
	ChunkMatSpecMap:    "MAT_SPECMAP",
	ChunkMatOpacMap:    "MAT_OPACMAP",
	ChunkMatReflMap:    "MAT_REFLMAP",
	ChunkMatBumpMap:    "MAT_BUMPMAP",
	ChunkMatTex2Map:    "MAT_TEX2MAP",
	ChunkMatShinMap:    "MAT_SHINMAP",
	ChunkMatSelfIMap:   "MAT_SELFIMAP",
	ChunkMapName:       "MAT_MAPNAME",
	ChunkMapTiling:     "MAT_MAP_TILING",
	ChunkMapUScale:     "MAT_MAP_USCALE",
	ChunkMapVScale:     "MAT_MAP_VSCALE",
	ChunkMapUOffset:    "MAT_MAP_UOFFSET",
	ChunkMapVOffset:    "MAT_MAP_VOFFSET",
	ChunkMapAngle:      "MAT_MAP_ANG",
	ChunkKeyframer:     "KFDATA",
	ChunkAmbientNode:   "AMBIENT_NODE_TAG",
	ChunkObjectNode:    "OBJECT_NODE_TAG",
	ChunkCameraNode:    "CAMERA_NODE_TAG",
	ChunkTargetNode:    "TARGET_NODE_TAG",
	ChunkLightNode:     "LIGHT_NODE_TAG",
	ChunkLTargetNode:   "L_TARGET_NODE_TAG",
	ChunkSpotlightNode: "SPOTLIGHT_NODE_TAG",
	ChunkKFSegment:     "KFSEG",
	ChunkKFCurTime:     "KFCURTIME",
	ChunkKFHeader:      "KFHDR",
	ChunkNodeHeader:    "NODE_HDR",
	ChunkInstanceName:  "INSTANCE_NAME",
	ChunkPivot:         "PIVOT",
	ChunkBoundBox:      "BOUNDBOX",
	ChunkPosTrack:      "POS_TRACK_TAG",
	ChunkRotTrack:      "ROT_TRACK_TAG",
	ChunkScaleTrack:    "SCL_TRACK_TAG",
	ChunkNodeID:        "NODE_ID",
}

// String returns the conventional chunk name, or the hex tag if unknown.
func (k ChunkKind) String() string {
	if name, ok := chunkNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(k))
}

// containerKinds lists the chunk kinds whose payload holds nested chunks.
// OBJECT and FACE_LIST carry a data prefix ahead of their children.
var containerKinds = map[ChunkKind]bool{
	ChunkMain:          true,
	ChunkEditor:        true,
	ChunkAmbient:       true,
	ChunkSolidBgnd:     true,
	ChunkObject:        true,
	ChunkTriMesh:       true,
	ChunkFaceList:      true,
	ChunkMaterial:      true,
	ChunkMatAmbient:    true,
	ChunkMatDiffuse:    true,
	ChunkMatSpecular:   true,
	ChunkMatShininess:  true,
	ChunkMatShinStr:    true,
	ChunkMatTransp:     true,
	ChunkMatSelfIllum:  true,
	ChunkMatTexMap:     true,
	ChunkMatSpecMap:    true,
	ChunkMatOpacMap:    true,
	ChunkMatReflMap:    true,
	ChunkMatBumpMap:    true,
	ChunkMatTex2Map:    true,
	ChunkMatShinMap:    true,
	ChunkMatSelfIMap:   true,
	ChunkKeyframer:     true,
	ChunkAmbientNode:   true,
	ChunkObjectNode:    true,
	ChunkCameraNode:    true,
	ChunkTargetNode:    true,
	ChunkLightNode:     true,
	ChunkLTargetNode:   true,
	ChunkSpotlightNode: true,
}

// nodeTagKinds maps keyframer node tags to the kind of node they describe.
var nodeTagKinds = map[ChunkKind]NodeKind{
	ChunkAmbientNode:   NodeAmbient,
	ChunkObjectNode:    NodeObject,
	ChunkCameraNode:    NodeCamera,
	ChunkTargetNode:    NodeCameraTarget,
	ChunkLightNode:     NodeLight,
	ChunkLTargetNode:   NodeLightTarget,
	ChunkSpotlightNode: NodeSpotlight,
}
