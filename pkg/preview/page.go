package preview

// indexPage renders published frames as they arrive.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>lazydom preview</title>
<style>
  body { font-family: sans-serif; margin: 0; }
  header { background: #222; color: #eee; padding: 8px 16px; font-size: 13px; }
  #frame { padding: 16px; }
</style>
</head>
<body>
<header id="status">connecting...</header>
<div id="frame"></div>
<script>
(function() {
    'use strict';

    var status = document.getElementById('status');
    var frame = document.getElementById('frame');

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'frame':
                    frame.innerHTML = msg.html;
                    status.textContent = msg.scenario + ' frame ' + msg.frame + ' (' + (msg.operations || 0) + ' ops)';
                    break;
                case 'done':
                    status.textContent = msg.scenario + ' done, ' + msg.frame + ' frames';
                    break;
                case 'error':
                    status.textContent = msg.scenario + ' failed: ' + msg.error;
                    break;
            }
        };

        ws.onclose = function() {
            status.textContent = 'disconnected, retrying...';
            setTimeout(connect, 1000);
        };
    }

    connect();
})();
</script>
</body>
</html>
`
