// Package code holds the symbolic names of the byte codes carried in Photon frames. The tables
// are plain data: the codec never validates a code against them.
package code

import (
	"fmt"
	"strconv"
	"strings"
)

// PacketType is the inner type of an operation frame, the low 7 bits of its second byte.
type PacketType uint8

const (
	PacketInit                      PacketType = 0
	PacketInitResponse              PacketType = 1
	PacketOperation                 PacketType = 2
	PacketOperationResponse         PacketType = 3
	PacketEvent                     PacketType = 4
	PacketDisconnect                PacketType = 5
	PacketInternalOperationRequest  PacketType = 6
	PacketInternalOperationResponse PacketType = 7
	PacketMessage                   PacketType = 8
	PacketRawMessage                PacketType = 9
)

// InternalOperationCode is the operation code of an internal operation frame.
type InternalOperationCode uint8

const (
	InternalInitEncryption InternalOperationCode = 0
	InternalPing           InternalOperationCode = 1
)

// OperationCode identifies the operation of a request or response.
type OperationCode uint8

const (
	OperationGetGameList               OperationCode = 217
	OperationServerSettings            OperationCode = 218
	OperationWebRpc                    OperationCode = 219
	OperationGetRegions                OperationCode = 220
	OperationGetLobbyStats             OperationCode = 221
	OperationFindFriends               OperationCode = 222
	OperationCancelJoinRandom          OperationCode = 224
	OperationJoinRandomGame            OperationCode = 225
	OperationJoinGame                  OperationCode = 226
	OperationCreateGame                OperationCode = 227
	OperationLeaveLobby                OperationCode = 228
	OperationJoinLobby                 OperationCode = 229
	OperationAuthenticate              OperationCode = 230
	OperationAuthenticateOnce          OperationCode = 231
	OperationChangeGroups              OperationCode = 248
	OperationExchangeKeysForEncryption OperationCode = 250
	OperationGetProperties             OperationCode = 251
	OperationSetProperties             OperationCode = 252
	OperationRaiseEvent                OperationCode = 253
	OperationLeave                     OperationCode = 254
	OperationJoin                      OperationCode = 255
)

// EventCode identifies the event carried by an event frame.
type EventCode uint8

const (
	EventAzureNodeInfo     EventCode = 210
	EventAuthEvent         EventCode = 223
	EventLobbyStats        EventCode = 224
	EventAppStats          EventCode = 226
	EventMatch             EventCode = 227
	EventQueueState        EventCode = 228
	EventGameListUpdate    EventCode = 229
	EventGameList          EventCode = 230
	EventCacheSliceChanged EventCode = 250
	EventErrorInfo         EventCode = 251
	EventPropertiesChanged EventCode = 253
	EventSetProperties     EventCode = 253
	EventLeave             EventCode = 254
	EventJoin              EventCode = 255
)

// ParameterCode is the key of a section in a request, response or event.
type ParameterCode uint8

const (
	ParameterFindFriendsRequestList        ParameterCode = 1
	ParameterFindFriendsResponseOnlineList ParameterCode = 1
	ParameterFindFriendsOptions            ParameterCode = 2
	ParameterFindFriendsResponseRoomIdList ParameterCode = 2
	ParameterRoomOptionFlags               ParameterCode = 191
	ParameterEncryptionData                ParameterCode = 192
	ParameterEncryptionMode                ParameterCode = 193
	ParameterCustomInitData                ParameterCode = 194
	ParameterExpectedProtocol              ParameterCode = 195
	ParameterPluginVersion                 ParameterCode = 200
	ParameterPluginName                    ParameterCode = 201
	ParameterNickName                      ParameterCode = 202
	ParameterMasterClientId                ParameterCode = 203
	ParameterPlugins                       ParameterCode = 204
	ParameterCacheSliceIndex               ParameterCode = 205
	ParameterWebRpcReturnMessage           ParameterCode = 206
	ParameterWebRpcReturnCode              ParameterCode = 207
	ParameterAzureMasterNodeId             ParameterCode = 208
	ParameterWebRpcParameters              ParameterCode = 208
	ParameterAzureLocalNodeId              ParameterCode = 209
	ParameterUriPath                       ParameterCode = 209
	ParameterAzureNodeInfo                 ParameterCode = 210
	ParameterRegion                        ParameterCode = 210
	ParameterLobbyStats                    ParameterCode = 211
	ParameterLobbyType                     ParameterCode = 212
	ParameterLobbyName                     ParameterCode = 213
	ParameterClientAuthenticationData      ParameterCode = 214
	ParameterCreateIfNotExists             ParameterCode = 215
	ParameterJoinMode                      ParameterCode = 215
	ParameterClientAuthenticationParams    ParameterCode = 216
	ParameterClientAuthenticationType      ParameterCode = 217
	ParameterInfo                          ParameterCode = 218
	ParameterAppVersion                    ParameterCode = 220
	ParameterSecret                        ParameterCode = 221
	ParameterGameList                      ParameterCode = 222
	ParameterMatchMakingType               ParameterCode = 223
	ParameterPosition                      ParameterCode = 223
	ParameterApplicationId                 ParameterCode = 224
	ParameterUserId                        ParameterCode = 225
	ParameterMasterPeerCount               ParameterCode = 227
	ParameterGameCount                     ParameterCode = 228
	ParameterPeerCount                     ParameterCode = 229
	ParameterAddress                       ParameterCode = 230
	ParameterExpectedValues                ParameterCode = 231
	ParameterCheckUserOnJoin               ParameterCode = 232
	ParameterIsComingBack                  ParameterCode = 233
	ParameterIsInactive                    ParameterCode = 233
	ParameterEventForward                  ParameterCode = 234
	ParameterPlayerTTL                     ParameterCode = 235
	ParameterEmptyRoomTTL                  ParameterCode = 236
	ParameterSuppressRoomEvents            ParameterCode = 237
	ParameterAdd                           ParameterCode = 238
	ParameterPublishUserId                 ParameterCode = 239
	ParameterRemove                        ParameterCode = 239
	ParameterGroup                         ParameterCode = 240
	ParameterCleanupCacheOnLeave           ParameterCode = 241
	ParameterEventCode                     ParameterCode = 244
	ParameterCustomEventContent            ParameterCode = 245
	ParameterData                          ParameterCode = 245
	ParameterReceiverGroup                 ParameterCode = 246
	ParameterCache                         ParameterCode = 247
	ParameterGameProperties                ParameterCode = 248
	ParameterPlayerProperties              ParameterCode = 249
	ParameterBroadcast                     ParameterCode = 250
	ParameterProperties                    ParameterCode = 251
	ParameterActorList                     ParameterCode = 252
	ParameterTargetActorNr                 ParameterCode = 253
	ParameterActorNr                       ParameterCode = 254
	ParameterRoomName                      ParameterCode = 255
)

func (t PacketType) String() string { return name(packetTypeNames, t) }
func (c InternalOperationCode) String() string { return name(internalOperationNames, c) }
func (c OperationCode) String() string { return name(operationNames, c) }
func (c EventCode) String() string { return name(eventNames, c) }
func (c ParameterCode) String() string { return name(parameterNames, c) }

// ParseOperationCode resolves an operation name such as "RaiseEvent" or a decimal code.
func ParseOperationCode(s string) (OperationCode, error) {
	return parse(operationNames, "operation", s)
}

// ParseEventCode resolves an event name such as "Join" or a decimal code.
func ParseEventCode(s string) (EventCode, error) {
	return parse(eventNames, "event", s)
}

// ParseParameterCode resolves a parameter name such as "Data" or a decimal code.
func ParseParameterCode(s string) (ParameterCode, error) {
	return parse(parameterNames, "parameter", s)
}

type table[T ~uint8] []struct {
	code T
	name string
}

func name[T ~uint8](t table[T], c T) string {
	for _, entry := range t {
		if entry.code == c {
			return entry.name
		}
	}
	return strconv.Itoa(int(c))
}

func parse[T ~uint8](t table[T], kind, s string) (T, error) {
	s = strings.TrimSpace(s)
	for _, entry := range t {
		if strings.EqualFold(entry.name, s) {
			return entry.code, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("code: unknown %s %q", kind, s)
	}
	return T(n), nil
}

var packetTypeNames = table[PacketType]{
	{PacketInit, "Init"},
	{PacketInitResponse, "InitResponse"},
	{PacketOperation, "Operation"},
	{PacketOperationResponse, "OperationResponse"},
	{PacketEvent, "Event"},
	{PacketDisconnect, "Disconnect"},
	{PacketInternalOperationRequest, "InternalOperationRequest"},
	{PacketInternalOperationResponse, "InternalOperationResponse"},
	{PacketMessage, "Message"},
	{PacketRawMessage, "RawMessage"},
}

var internalOperationNames = table[InternalOperationCode]{
	{InternalInitEncryption, "InitEncryption"},
	{InternalPing, "Ping"},
}

var operationNames = table[OperationCode]{
	{OperationGetGameList, "GetGameList"},
	{OperationServerSettings, "ServerSettings"},
	{OperationWebRpc, "WebRpc"},
	{OperationGetRegions, "GetRegions"},
	{OperationGetLobbyStats, "GetLobbyStats"},
	{OperationFindFriends, "FindFriends"},
	{OperationCancelJoinRandom, "CancelJoinRandom"},
	{OperationJoinRandomGame, "JoinRandomGame"},
	{OperationJoinGame, "JoinGame"},
	{OperationCreateGame, "CreateGame"},
	{OperationLeaveLobby, "LeaveLobby"},
	{OperationJoinLobby, "JoinLobby"},
	{OperationAuthenticate, "Authenticate"},
	{OperationAuthenticateOnce, "AuthenticateOnce"},
	{OperationChangeGroups, "ChangeGroups"},
	{OperationExchangeKeysForEncryption, "ExchangeKeysForEncryption"},
	{OperationGetProperties, "GetProperties"},
	{OperationSetProperties, "SetProperties"},
	{OperationRaiseEvent, "RaiseEvent"},
	{OperationLeave, "Leave"},
	{OperationJoin, "Join"},
}

var eventNames = table[EventCode]{
	{EventAzureNodeInfo, "AzureNodeInfo"},
	{EventAuthEvent, "AuthEvent"},
	{EventLobbyStats, "LobbyStats"},
	{EventAppStats, "AppStats"},
	{EventMatch, "Match"},
	{EventQueueState, "QueueState"},
	{EventGameListUpdate, "GameListUpdate"},
	{EventGameList, "GameList"},
	{EventCacheSliceChanged, "CacheSliceChanged"},
	{EventErrorInfo, "ErrorInfo"},
	{EventPropertiesChanged, "PropertiesChanged"},
	{EventSetProperties, "SetProperties"},
	{EventLeave, "Leave"},
	{EventJoin, "Join"},
}

var parameterNames = table[ParameterCode]{
	{ParameterFindFriendsRequestList, "FindFriendsRequestList"},
	{ParameterFindFriendsResponseOnlineList, "FindFriendsResponseOnlineList"},
	{ParameterFindFriendsOptions, "FindFriendsOptions"},
	{ParameterFindFriendsResponseRoomIdList, "FindFriendsResponseRoomIdList"},
	{ParameterRoomOptionFlags, "RoomOptionFlags"},
	{ParameterEncryptionData, "EncryptionData"},
	{ParameterEncryptionMode, "EncryptionMode"},
	{ParameterCustomInitData, "CustomInitData"},
	{ParameterExpectedProtocol, "ExpectedProtocol"},
	{ParameterPluginVersion, "PluginVersion"},
	{ParameterPluginName, "PluginName"},
	{ParameterNickName, "NickName"},
	{ParameterMasterClientId, "MasterClientId"},
	{ParameterPlugins, "Plugins"},
	{ParameterCacheSliceIndex, "CacheSliceIndex"},
	{ParameterWebRpcReturnMessage, "WebRpcReturnMessage"},
	{ParameterWebRpcReturnCode, "WebRpcReturnCode"},
	{ParameterAzureMasterNodeId, "AzureMasterNodeId"},
	{ParameterWebRpcParameters, "WebRpcParameters"},
	{ParameterAzureLocalNodeId, "AzureLocalNodeId"},
	{ParameterUriPath, "UriPath"},
	{ParameterAzureNodeInfo, "AzureNodeInfo"},
	{ParameterRegion, "Region"},
	{ParameterLobbyStats, "LobbyStats"},
	{ParameterLobbyType, "LobbyType"},
	{ParameterLobbyName, "LobbyName"},
	{ParameterClientAuthenticationData, "ClientAuthenticationData"},
	{ParameterCreateIfNotExists, "CreateIfNotExists"},
	{ParameterJoinMode, "JoinMode"},
	{ParameterClientAuthenticationParams, "ClientAuthenticationParams"},
	{ParameterClientAuthenticationType, "ClientAuthenticationType"},
	{ParameterInfo, "Info"},
	{ParameterAppVersion, "AppVersion"},
	{ParameterSecret, "Secret"},
	{ParameterGameList, "GameList"},
	{ParameterMatchMakingType, "MatchMakingType"},
	{ParameterPosition, "Position"},
	{ParameterApplicationId, "ApplicationId"},
	{ParameterUserId, "UserId"},
	{ParameterMasterPeerCount, "MasterPeerCount"},
	{ParameterGameCount, "GameCount"},
	{ParameterPeerCount, "PeerCount"},
	{ParameterAddress, "Address"},
	{ParameterExpectedValues, "ExpectedValues"},
	{ParameterCheckUserOnJoin, "CheckUserOnJoin"},
	{ParameterIsComingBack, "IsComingBack"},
	{ParameterIsInactive, "IsInactive"},
	{ParameterEventForward, "EventForward"},
	{ParameterPlayerTTL, "PlayerTTL"},
	{ParameterEmptyRoomTTL, "EmptyRoomTTL"},
	{ParameterSuppressRoomEvents, "SuppressRoomEvents"},
	{ParameterAdd, "Add"},
	{ParameterPublishUserId, "PublishUserId"},
	{ParameterRemove, "Remove"},
	{ParameterGroup, "Group"},
	{ParameterCleanupCacheOnLeave, "CleanupCacheOnLeave"},
	{ParameterEventCode, "Code"},
	{ParameterCustomEventContent, "CustomEventContent"},
	{ParameterData, "Data"},
	{ParameterReceiverGroup, "ReceiverGroup"},
	{ParameterCache, "Cache"},
	{ParameterGameProperties, "GameProperties"},
	{ParameterPlayerProperties, "PlayerProperties"},
	{ParameterBroadcast, "Broadcast"},
	{ParameterProperties, "Properties"},
	{ParameterActorList, "ActorList"},
	{ParameterTargetActorNr, "TargetActorNr"},
	{ParameterActorNr, "ActorNr"},
	{ParameterRoomName, "RoomName"},
}
