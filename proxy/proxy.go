package proxy

import (
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"
)

// 代理选择函数，签名与http.Transport.Proxy一致；浏览器启动时以nil请求调用一次来选定代理
type ProxyFunc func(*http.Request) (*url.URL, error)

// 轮询代理选择器
type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

/*
输入一个http.Request，输出下一个代理地址和一个error

用原子自增的下标在代理列表中轮询，请求本身不参与选择，可以为nil
*/
func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	if len(r.proxyURLs) == 0 {
		return nil, errors.New("empty proxy urls")
	}
	index := atomic.AddUint32(&r.index, 1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]
	return u, nil
}

/*
输入代理服务器地址列表，输出一个轮询的代理选择函数和一个error

列表为空或某个地址无法解析时返回错误
*/
func RoundRobinProxySwitcher(ProxyURLs ...string) (ProxyFunc, error) {
	if len(ProxyURLs) < 1 {
		return nil, errors.New("Proxy URL list is empty")
	}
	urls := make([]*url.URL, len(ProxyURLs))
	for i, u := range ProxyURLs {
		parsedU, err := url.Parse(u)
		if err != nil {
			return nil, err
		}
		urls[i] = parsedU
	}
	return (&roundRobinSwitcher{urls, 0}).GetProxy, nil
}

// 取出下一个代理并格式化为chrome的--proxy-server参数，未配置代理时返回空字符串
func Server(p ProxyFunc) (string, error) {
	if p == nil {
		return "", nil
	}
	u, err := p(nil)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	return u.String(), nil
}
