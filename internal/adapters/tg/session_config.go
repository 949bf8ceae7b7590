package tg

import (
	"github.com/larriantoniy/tg_farm_bot/internal/ports"
	"github.com/zelenin/go-tdlib/client"
)

func tdParams(sc *ports.SessionConfig, apiID int32, apiHash string, dbDir, filesDir string) *client.SetTdlibParametersRequest {
	lang := sc.LangCode
	if lang == "" {
		lang = "en"
	}

	systemVersion := sc.SystemVersion
	if systemVersion == "" {
		systemVersion = "Android 13"
	}

	appVersion := sc.ApplicationVersion
	if appVersion == "" {
		appVersion = "10.9.1"
	}

	deviceModel := sc.DeviceModel
	if deviceModel == "" {
		deviceModel = "Samsung SM-A536B"
	}

	return &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   dbDir,
		FilesDirectory:      filesDir,
		UseFileDatabase:     false,
		UseChatInfoDatabase: true,
		UseMessageDatabase:  false,
		UseSecretChats:      false,
		ApiId:               apiID,
		ApiHash:             apiHash,
		SystemLanguageCode:  lang,
		DeviceModel:         deviceModel,
		SystemVersion:       systemVersion,
		ApplicationVersion:  appVersion,
	}
}

// tdProxy тот же прокси, что и у HTTP, но для MTProto-соединения TDLib.
func tdProxy(p *ports.ProxyConfig) *client.AddProxyRequest {
	if p == nil || !p.Enabled {
		return nil
	}

	req := &client.AddProxyRequest{
		Server: p.Server,
		Port:   p.Port,
		Enable: true,
	}
	switch p.Scheme {
	case "http", "https":
		req.Type = &client.ProxyTypeHttp{
			Username: p.Username,
			Password: p.Password,
		}
	default:
		req.Type = &client.ProxyTypeSocks5{
			Username: p.Username,
			Password: p.Password,
		}
	}
	return req
}
